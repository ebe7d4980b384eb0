package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

// DocumentFilter narrows document listings. Zero values mean "no filter".
type DocumentFilter struct {
	Status         string
	DocumentType   string
	ZoneNumber     string
	SectionNumber  string
	ArtifactNumber string
	Study          string
	Country        string
}

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Document, error)
	List(ctx context.Context, tx *gorm.DB, filter DocumentFilter) ([]*types.Document, error)
	Update(ctx context.Context, tx *gorm.DB, document *types.Document) (*types.Document, error)
	UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID, status string) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (dr *documentRepo) Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(documents) == 0 {
		return []*types.Document{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&documents).Error; err != nil {
		return nil, err
	}

	return documents, nil
}

func (dr *documentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Document

	if len(documentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", documentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (dr *documentRepo) List(ctx context.Context, tx *gorm.DB, filter DocumentFilter) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	query := transaction.WithContext(ctx).Model(&types.Document{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}
	if filter.ZoneNumber != "" {
		query = query.Where("zone_number = ?", filter.ZoneNumber)
	}
	if filter.SectionNumber != "" {
		query = query.Where("section_number = ?", filter.SectionNumber)
	}
	if filter.ArtifactNumber != "" {
		query = query.Where("artifact_number = ?", filter.ArtifactNumber)
	}
	if filter.Study != "" {
		query = query.Where("study = ?", filter.Study)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}

	var results []*types.Document
	if err := query.Order("upload_date DESC").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (dr *documentRepo) Update(ctx context.Context, tx *gorm.DB, document *types.Document) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if err := transaction.WithContext(ctx).Save(document).Error; err != nil {
		return nil, err
	}

	return document, nil
}

func (dr *documentRepo) UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(documentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id IN ?", documentIDs).
		Update("status", status).Error; err != nil {
		return err
	}

	return nil
}

func (dr *documentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(documentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", documentIDs).
		Delete(&types.Document{}).Error; err != nil {
		return err
	}

	return nil
}
