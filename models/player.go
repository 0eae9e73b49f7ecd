package models

// Player is a local copy of a player profile. Records mirrored from the
// match registry carry the registry's ExternalID.
type Player struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ExternalID *string `gorm:"uniqueIndex" json:"external_id,omitempty"`
	FirstName  string  `gorm:"not null" json:"first_name"`
	LastName   string  `gorm:"not null" json:"last_name"`
	Country    string  `gorm:"type:varchar(8)" json:"country"`
	SearchName string  `gorm:"index" json:"-"` // lowercase ASCII "first last"

	Timestamps
}

// FullName returns "First Last".
func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}
