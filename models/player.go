package models

import "time"

// Player is one row of the ledger: a roster name and its cumulative victory
// count. Victories is derived from the match log and mutated only by the
// match service.
type Player struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Victories int       `json:"victories" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}
