package models

import "time"

// Match is one append-only entry of the match log. Players are referenced by
// name, not by foreign key, so a match may outlive (or predate) its ledger
// rows. Rows are never updated or deleted.
type Match struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	FirstPlayerName   string    `json:"first_player_name" gorm:"size:100;not null"`
	SecondPlayerName  string    `json:"second_player_name" gorm:"size:100;not null"`
	FirstPlayerScore  int       `json:"first_player_score" gorm:"not null"`
	SecondPlayerScore int       `json:"second_player_score" gorm:"not null"`
	MatchDate         time.Time `json:"match_date" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Match) TableName() string {
	return "matches"
}

// Winner returns the name of the winning player, or "" for a draw.
func (m *Match) Winner() string {
	switch {
	case m.FirstPlayerScore > m.SecondPlayerScore:
		return m.FirstPlayerName
	case m.SecondPlayerScore > m.FirstPlayerScore:
		return m.SecondPlayerName
	default:
		return ""
	}
}
