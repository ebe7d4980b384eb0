package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/taxonomy"
	"github.com/clinovara/tmf-backend/internal/types"
	"github.com/clinovara/tmf-backend/internal/wizard"
)

// CreateDocumentInput carries the metadata and file for a new TMF document.
// ArtifactNumber is the source of truth for the taxonomy path; zone and
// section columns are derived from it.
type CreateDocumentInput struct {
	DocumentTitle   string
	Description     string
	Version         string
	DocumentType    string
	ArtifactNumber  string
	SubArtifactName string
	Study           string
	Country         string
	Site            string
	Author          string
	AccessLevel     string
	UploadedBy      uuid.UUID

	FileName    string
	FileSize    int64
	ContentType string
	File        io.Reader
}

type DocumentService interface {
	CreateDocument(ctx context.Context, input CreateDocumentInput) (*types.Document, error)
	GetDocument(ctx context.Context, documentID uuid.UUID) (*types.Document, error)
	ListDocuments(ctx context.Context, filter repos.DocumentFilter) ([]*types.Document, error)
	UpdateStatus(ctx context.Context, documentID uuid.UUID, status string) (*types.Document, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

type documentService struct {
	db           *gorm.DB
	log          *logger.Logger
	tables       *taxonomy.Tables
	documentRepo repos.DocumentRepo
	bucket       BucketService
}

func NewDocumentService(
	db *gorm.DB,
	log *logger.Logger,
	tables *taxonomy.Tables,
	documentRepo repos.DocumentRepo,
	bucket BucketService,
) DocumentService {
	serviceLog := log.With("service", "DocumentService")
	return &documentService{
		db:           db,
		log:          serviceLog,
		tables:       tables,
		documentRepo: documentRepo,
		bucket:       bucket,
	}
}

func (ds *documentService) CreateDocument(ctx context.Context, input CreateDocumentInput) (*types.Document, error) {
	if strings.TrimSpace(input.DocumentTitle) == "" {
		return nil, fmt.Errorf("document title is required")
	}
	if err := wizard.CheckFile(wizard.FileMeta{
		Name:        input.FileName,
		Size:        input.FileSize,
		ContentType: input.ContentType,
	}); err != nil {
		return nil, err
	}
	if input.DocumentType != "" && !types.ValidDocumentType(input.DocumentType) {
		return nil, fmt.Errorf("invalid document type %q", input.DocumentType)
	}

	info, ok := ds.tables.ArtifactInfoOf(input.ArtifactNumber)
	if !ok {
		return nil, fmt.Errorf("artifact %q: %w", input.ArtifactNumber, taxonomy.ErrUnknownCode)
	}
	if input.SubArtifactName != "" {
		found := false
		for _, name := range info.SubArtifacts {
			if name == input.SubArtifactName {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sub-artifact %q does not belong to artifact %q", input.SubArtifactName, input.ArtifactNumber)
		}
	}
	sectionNumber := taxonomy.SectionOfArtifact(input.ArtifactNumber)
	zoneNumber := taxonomy.ZoneOfSection(sectionNumber)
	sectionName, _ := ds.tables.SectionNameOf(sectionNumber)
	zoneName, _ := ds.tables.ZoneNameOf(zoneNumber)

	documentID := uuid.New()
	storageKey := fmt.Sprintf("documents/%s/%s", documentID, input.FileName)
	if err := ds.bucket.UploadFile(ctx, storageKey, input.File); err != nil {
		return nil, fmt.Errorf("Failed to upload document file: %w", err)
	}

	version := input.Version
	if version == "" {
		version = "1.0"
	}
	docType := input.DocumentType
	if docType == "" {
		docType = types.DocumentTypeOther
	}
	document := &types.Document{
		ID:              documentID,
		DocumentTitle:   input.DocumentTitle,
		Description:     input.Description,
		Version:         version,
		Status:          types.DocumentStatusDraft,
		DocumentType:    docType,
		ZoneNumber:      zoneNumber,
		ZoneName:        zoneName,
		SectionNumber:   sectionNumber,
		SectionName:     sectionName,
		ArtifactNumber:  input.ArtifactNumber,
		ArtifactName:    info.Name,
		SubArtifactName: input.SubArtifactName,
		FileName:        input.FileName,
		FileSize:        input.FileSize,
		FileFormat:      strings.TrimPrefix(filepath.Ext(input.FileName), "."),
		StorageKey:      storageKey,
		FileURL:         ds.bucket.GetPublicURL(storageKey),
		TMFReference:    input.ArtifactNumber,
		Study:           input.Study,
		Country:         input.Country,
		Site:            input.Site,
		Author:          input.Author,
		AccessLevel:     input.AccessLevel,
		UploadedBy:      input.UploadedBy,
		UploadDate:      time.Now().UTC(),
	}

	var created *types.Document
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ds.documentRepo.Create(ctx, tx, []*types.Document{document})
		if err != nil {
			return fmt.Errorf("Failed to create document: %w", err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		// The row never landed, so the uploaded object is orphaned.
		if delErr := ds.bucket.DeleteFile(ctx, storageKey); delErr != nil {
			ds.log.Warn("Failed to clean up orphaned upload", "key", storageKey, "error", delErr)
		}
		return nil, err
	}

	ds.log.Info("Created document",
		"documentId", created.ID,
		"artifactNumber", created.ArtifactNumber,
		"fileSize", created.FileSize)
	return created, nil
}

func (ds *documentService) GetDocument(ctx context.Context, documentID uuid.UUID) (*types.Document, error) {
	documents, err := ds.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get document: %w", err)
	}
	if len(documents) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return documents[0], nil
}

func (ds *documentService) ListDocuments(ctx context.Context, filter repos.DocumentFilter) ([]*types.Document, error) {
	return ds.documentRepo.List(ctx, nil, filter)
}

func (ds *documentService) UpdateStatus(ctx context.Context, documentID uuid.UUID, status string) (*types.Document, error) {
	if !types.ValidDocumentStatus(status) {
		return nil, fmt.Errorf("invalid document status %q", status)
	}
	var updated *types.Document
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		documents, err := ds.documentRepo.GetByIDs(ctx, tx, []uuid.UUID{documentID})
		if err != nil {
			return fmt.Errorf("Failed to get document: %w", err)
		}
		if len(documents) == 0 {
			return gorm.ErrRecordNotFound
		}
		documents[0].Status = status
		updated, err = ds.documentRepo.Update(ctx, tx, documents[0])
		if err != nil {
			return fmt.Errorf("Failed to update document status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ds *documentService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	if err := ds.documentRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{documentID}); err != nil {
		return fmt.Errorf("Failed to delete document: %w", err)
	}
	return nil
}
