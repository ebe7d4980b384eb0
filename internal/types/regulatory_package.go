package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PackageStatusDraft     = "DRAFT"
	PackageStatusInReview  = "IN_REVIEW"
	PackageStatusSubmitted = "SUBMITTED"
	PackageStatusApproved  = "APPROVED"
	PackageStatusRejected  = "REJECTED"
)

const (
	AuditActionCreated        = "created"
	AuditActionUpdated        = "updated"
	AuditActionDocumentsAdded = "documents_added"
)

// AuditEntry rows are appended to the package's audit trail; existing entries
// are never rewritten.
type AuditEntry struct {
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// A regulatory package aggregates documents for submission to one country's
// agency. Packages are soft-tracked through the audit trail rather than hard
// deleted.
type RegulatoryPackage struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Country    string         `gorm:"not null;column:country" json:"country"`
	FlagCode   string         `gorm:"column:flag_code" json:"flag_code,omitempty"`
	Type       string         `gorm:"column:type" json:"type,omitempty"`
	Status     string         `gorm:"not null;default:'DRAFT';column:status" json:"status"`
	Priority   string         `gorm:"column:priority" json:"priority,omitempty"`
	AuditTrail datatypes.JSON `gorm:"column:audit_trail;type:jsonb" json:"audit_trail"`
	CreatedBy  uuid.UUID      `gorm:"type:uuid;column:created_by" json:"created_by"`

	Documents []*Document `gorm:"many2many:package_document;joinForeignKey:PackageID;joinReferences:DocumentID" json:"documents,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RegulatoryPackage) TableName() string { return "regulatory_package" }

// Membership of a document in a package. Removing a document from a package
// deletes this row only; the document itself survives.
type PackageDocument struct {
	PackageID  uuid.UUID `gorm:"type:uuid;primaryKey;column:package_id" json:"package_id"`
	DocumentID uuid.UUID `gorm:"type:uuid;primaryKey;column:document_id" json:"document_id"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PackageDocument) TableName() string { return "package_document" }
