package models

import "time"

// User is the administrative account permitted to log matches. Rows are
// created only by the seed step, never at runtime.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public-safe view of a user returned by /login.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}
