package models

import "time"

// Match is the underlying record a live session scores: who plays, where,
// and under which format.
type Match struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ExternalID  *string   `gorm:"uniqueIndex" json:"external_id,omitempty"`
	Slug        string    `gorm:"index" json:"slug"`
	Tournament  string    `gorm:"not null" json:"tournament"`
	Round       string    `json:"round"`
	Surface     string    `json:"surface"`
	ScheduledAt time.Time `json:"scheduled_at"`

	PlayerAID   string `gorm:"index;not null" json:"player_a_id"`
	PlayerBID   string `gorm:"index;not null" json:"player_b_id"`
	PlayerA     Player `gorm:"foreignKey:PlayerAID" json:"player_a"`
	PlayerB     Player `gorm:"foreignKey:PlayerBID" json:"player_b"`
	PlayerASeed *int   `json:"player_a_seed,omitempty"`
	PlayerBSeed *int   `json:"player_b_seed,omitempty"`

	// Format
	BestOf   int            `gorm:"default:3" json:"best_of"`
	FinalSet FinalSetFormat `gorm:"type:varchar(16);default:'tiebreak'" json:"final_set"`

	TossWinner *Side `gorm:"type:varchar(1)" json:"toss_winner,omitempty"`
	Winner     *Side `gorm:"type:varchar(1)" json:"winner,omitempty"`

	Timestamps
}
