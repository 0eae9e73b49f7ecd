package models

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// All lists every table owned by the service, in migration order.
func All() []interface{} {
	return []interface{}{
		&Player{},
		&Match{},
		&LiveSession{},
		&LiveSet{},
		&LiveGame{},
		&LivePoint{},
		&MatchEvent{},
		&PlayerSetStats{},
	}
}
