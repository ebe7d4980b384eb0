package types

import (
	"time"

	"github.com/google/uuid"
)

// SectionNumber is a "ZZ.SS" code whose first two digits must match the
// owning zone's number. SectionName is derived from the taxonomy tables,
// not independently editable.
type Section struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionNumber      string    `gorm:"uniqueIndex;not null;column:section_number" json:"section_number"`
	SectionName        string    `gorm:"not null;column:section_name" json:"section_name"`
	SectionDescription string    `gorm:"column:section_description" json:"section_description,omitempty"`
	ZoneID             uuid.UUID `gorm:"type:uuid;not null;index" json:"zone_id"`
	Zone               *Zone     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ZoneID;references:ID" json:"zone,omitempty"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Section) TableName() string { return "section" }
