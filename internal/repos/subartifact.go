package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

type SubArtifactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, subArtifacts []*types.SubArtifact) ([]*types.SubArtifact, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, subArtifactIDs []uuid.UUID) ([]*types.SubArtifact, error)
	GetByArtifactIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) ([]*types.SubArtifact, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, subArtifactIDs []uuid.UUID) error
}

type subArtifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubArtifactRepo(db *gorm.DB, baseLog *logger.Logger) SubArtifactRepo {
	repoLog := baseLog.With("repo", "SubArtifactRepo")
	return &subArtifactRepo{db: db, log: repoLog}
}

func (sar *subArtifactRepo) Create(ctx context.Context, tx *gorm.DB, subArtifacts []*types.SubArtifact) ([]*types.SubArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = sar.db
	}

	if len(subArtifacts) == 0 {
		return []*types.SubArtifact{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&subArtifacts).Error; err != nil {
		return nil, err
	}

	return subArtifacts, nil
}

func (sar *subArtifactRepo) GetByIDs(ctx context.Context, tx *gorm.DB, subArtifactIDs []uuid.UUID) ([]*types.SubArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = sar.db
	}

	var results []*types.SubArtifact

	if len(subArtifactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", subArtifactIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sar *subArtifactRepo) GetByArtifactIDs(ctx context.Context, tx *gorm.DB, artifactIDs []uuid.UUID) ([]*types.SubArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = sar.db
	}

	var results []*types.SubArtifact

	if len(artifactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("artifact_id IN ?", artifactIDs).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sar *subArtifactRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, subArtifactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sar.db
	}

	if len(subArtifactIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", subArtifactIDs).
		Delete(&types.SubArtifact{}).Error; err != nil {
		return err
	}

	return nil
}
