package types

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactNumber is a "ZZ.SS.AA" code whose first four digits must match the
// owning section's number. Mandatory flags an artifact slot that must be
// filled before a package is considered complete.
type Artifact struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ArtifactNumber      string    `gorm:"uniqueIndex;not null;column:artifact_number" json:"artifact_number"`
	ArtifactName        string    `gorm:"not null;column:artifact_name" json:"artifact_name"`
	ArtifactDescription string    `gorm:"column:artifact_description" json:"artifact_description,omitempty"`
	Mandatory           bool      `gorm:"not null;default:false" json:"mandatory"`
	SectionID           uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Section             *Section  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	CreatedAt           time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Artifact) TableName() string { return "artifact" }
