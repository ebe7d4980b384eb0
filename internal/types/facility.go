package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacilityID is the generated "TYPE-NAME-XXXX" code assigned at creation.
type Facility struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FacilityID string    `gorm:"uniqueIndex;not null;column:facility_id" json:"facility_id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	SiteType   string    `gorm:"column:site_type" json:"site_type,omitempty"`
	Address    string    `gorm:"column:address" json:"address,omitempty"`
	City       string    `gorm:"column:city" json:"city,omitempty"`
	State      string    `gorm:"column:state" json:"state,omitempty"`
	Country    string    `gorm:"column:country" json:"country,omitempty"`
	PostalCode string    `gorm:"column:postal_code" json:"postal_code,omitempty"`
	NPI        string    `gorm:"column:npi" json:"npi,omitempty"`
	Status     string    `gorm:"not null;default:'active';column:status" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Facility) TableName() string { return "facility" }
