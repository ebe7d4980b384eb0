package types

import (
	"time"

	"github.com/google/uuid"
)

// Sub-artifacts are drawn from the fixed list attached to the parent
// artifact's taxonomy entry; they carry no number of their own.
type SubArtifact struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	ArtifactID uuid.UUID `gorm:"type:uuid;not null;index" json:"artifact_id"`
	Artifact   *Artifact `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArtifactID;references:ID" json:"artifact,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SubArtifact) TableName() string { return "sub_artifact" }
