package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

type ArtifactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, artifacts []*types.Artifact) ([]*types.Artifact, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Artifact, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) ([]*types.Artifact, error)
	GetByNumbers(ctx context.Context, tx *gorm.DB, artifactNumbers []string) ([]*types.Artifact, error)
	GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Artifact, error)
	GetMandatoryBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Artifact, error)
	Update(ctx context.Context, tx *gorm.DB, artifact *types.Artifact) (*types.Artifact, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) error
}

type artifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArtifactRepo(db *gorm.DB, baseLog *logger.Logger) ArtifactRepo {
	repoLog := baseLog.With("repo", "ArtifactRepo")
	return &artifactRepo{db: db, log: repoLog}
}

func (ar *artifactRepo) Create(ctx context.Context, tx *gorm.DB, artifacts []*types.Artifact) ([]*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(artifacts) == 0 {
		return []*types.Artifact{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&artifacts).Error; err != nil {
		return nil, err
	}

	return artifacts, nil
}

func (ar *artifactRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Artifact

	if err := transaction.WithContext(ctx).
		Order("artifact_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ar *artifactRepo) GetByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) ([]*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Artifact

	if len(artifactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", artifactIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ar *artifactRepo) GetByNumbers(ctx context.Context, tx *gorm.DB, artifactNumbers []string) ([]*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Artifact

	if len(artifactNumbers) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("artifact_number IN ?", artifactNumbers).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ar *artifactRepo) GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Artifact

	if len(sectionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_id IN ?", sectionIDs).
		Order("artifact_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ar *artifactRepo) GetMandatoryBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Artifact

	if len(sectionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_id IN ? AND mandatory = ?", sectionIDs, true).
		Order("artifact_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ar *artifactRepo) Update(ctx context.Context, tx *gorm.DB, artifact *types.Artifact) (*types.Artifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Save(artifact).Error; err != nil {
		return nil, err
	}

	return artifact, nil
}

func (ar *artifactRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(artifactIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", artifactIDs).
		Delete(&types.Artifact{}).Error; err != nil {
		return err
	}

	return nil
}
