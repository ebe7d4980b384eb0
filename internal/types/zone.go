package types

import (
	"time"

	"github.com/google/uuid"
)

type Zone struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ZoneNumber      string    `gorm:"uniqueIndex;not null;column:zone_number" json:"zone_number"`
	ZoneName        string    `gorm:"not null;column:zone_name" json:"zone_name"`
	ZoneDescription string    `gorm:"column:zone_description" json:"zone_description,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Zone) TableName() string { return "zone" }
