package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DocumentStatusDraft           = "DRAFT"
	DocumentStatusInReview        = "IN_REVIEW"
	DocumentStatusInQC            = "IN_QC"
	DocumentStatusPendingApproval = "PENDING_APPROVAL"
	DocumentStatusApproved        = "APPROVED"
	DocumentStatusRejected        = "REJECTED"
	DocumentStatusArchived        = "ARCHIVED"
	DocumentStatusExpired         = "EXPIRED"
)

const (
	DocumentTypeProtocol             = "PROTOCOL"
	DocumentTypeInvestigatorBrochure = "INVESTIGATOR_BROCHURE"
	DocumentTypeInformedConsent      = "INFORMED_CONSENT"
	DocumentTypeRegulatoryDocument   = "REGULATORY_DOCUMENT"
	DocumentTypeClinicalReport       = "CLINICAL_REPORT"
	DocumentTypeSafetyReport         = "SAFETY_REPORT"
	DocumentTypeQualityDocument      = "QUALITY_DOCUMENT"
	DocumentTypeTrainingDocument     = "TRAINING_DOCUMENT"
	DocumentTypeOther                = "OTHER"
)

var documentStatuses = map[string]struct{}{
	DocumentStatusDraft:           {},
	DocumentStatusInReview:        {},
	DocumentStatusInQC:            {},
	DocumentStatusPendingApproval: {},
	DocumentStatusApproved:        {},
	DocumentStatusRejected:        {},
	DocumentStatusArchived:        {},
	DocumentStatusExpired:         {},
}

var documentTypes = map[string]struct{}{
	DocumentTypeProtocol:             {},
	DocumentTypeInvestigatorBrochure: {},
	DocumentTypeInformedConsent:      {},
	DocumentTypeRegulatoryDocument:   {},
	DocumentTypeClinicalReport:       {},
	DocumentTypeSafetyReport:         {},
	DocumentTypeQualityDocument:      {},
	DocumentTypeTrainingDocument:     {},
	DocumentTypeOther:                {},
}

func ValidDocumentStatus(status string) bool {
	_, ok := documentStatuses[status]
	return ok
}

func ValidDocumentType(docType string) bool {
	_, ok := documentTypes[docType]
	return ok
}

// A document owns exactly one uploaded file, referenced by StorageKey and
// FileURL once persisted. The zone/section/artifact/sub-artifact columns echo
// the taxonomy path chosen at creation time. TMF documents are never hard
// deleted; only package membership rows are.
type Document struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentTitle   string    `gorm:"not null;column:document_title" json:"document_title"`
	Description     string    `gorm:"column:description" json:"description,omitempty"`
	Version         string    `gorm:"not null;default:'1.0';column:version" json:"version"`
	Status          string    `gorm:"not null;default:'DRAFT';column:status" json:"status"`
	DocumentType    string    `gorm:"not null;default:'OTHER';column:document_type" json:"document_type"`
	ZoneNumber      string    `gorm:"not null;column:zone_number" json:"zone_number"`
	ZoneName        string    `gorm:"column:zone_name" json:"zone_name"`
	SectionNumber   string    `gorm:"not null;column:section_number" json:"section_number"`
	SectionName     string    `gorm:"column:section_name" json:"section_name"`
	ArtifactNumber  string    `gorm:"not null;column:artifact_number" json:"artifact_number"`
	ArtifactName    string    `gorm:"column:artifact_name" json:"artifact_name"`
	SubArtifactName string    `gorm:"column:sub_artifact_name" json:"sub_artifact_name"`
	Mandatory       bool      `gorm:"not null;default:false" json:"mandatory"`

	FileName   string `gorm:"not null;column:file_name" json:"file_name"`
	FileSize   int64  `gorm:"column:file_size" json:"file_size"`
	FileFormat string `gorm:"column:file_format" json:"file_format"`
	StorageKey string `gorm:"column:storage_key" json:"storage_key,omitempty"`
	FileURL    string `gorm:"column:file_url" json:"file_url,omitempty"`

	TMFReference        string         `gorm:"column:tmf_reference" json:"tmf_reference,omitempty"`
	Study               string         `gorm:"column:study" json:"study,omitempty"`
	Country             string         `gorm:"column:country" json:"country,omitempty"`
	Site                string         `gorm:"column:site" json:"site,omitempty"`
	Author              string         `gorm:"column:author" json:"author,omitempty"`
	AccessLevel         string         `gorm:"column:access_level;default:'Restricted'" json:"access_level,omitempty"`
	RegulatoryMetadata  datatypes.JSON `gorm:"column:regulatory_metadata;type:jsonb" json:"regulatory_metadata,omitempty"`
	UploadedBy          uuid.UUID      `gorm:"type:uuid;column:uploaded_by" json:"uploaded_by"`

	UploadDate   time.Time  `gorm:"not null;column:upload_date" json:"upload_date"`
	DocumentDate *time.Time `gorm:"column:document_date" json:"document_date,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }
