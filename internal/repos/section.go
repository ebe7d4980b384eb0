package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

type SectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Section, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Section, error)
	GetByNumbers(ctx context.Context, tx *gorm.DB, sectionNumbers []string) ([]*types.Section, error)
	GetByZoneIDs(ctx context.Context, tx *gorm.DB, zoneIDs []uuid.UUID) ([]*types.Section, error)
	Update(ctx context.Context, tx *gorm.DB, section *types.Section) (*types.Section, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	repoLog := baseLog.With("repo", "SectionRepo")
	return &sectionRepo{db: db, log: repoLog}
}

func (sr *sectionRepo) Create(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(sections) == 0 {
		return []*types.Section{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sections).Error; err != nil {
		return nil, err
	}

	return sections, nil
}

func (sr *sectionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Section

	if err := transaction.WithContext(ctx).
		Order("section_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sr *sectionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Section

	if len(sectionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sectionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sr *sectionRepo) GetByNumbers(ctx context.Context, tx *gorm.DB, sectionNumbers []string) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Section

	if len(sectionNumbers) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_number IN ?", sectionNumbers).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sr *sectionRepo) GetByZoneIDs(ctx context.Context, tx *gorm.DB, zoneIDs []uuid.UUID) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Section

	if len(zoneIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("zone_id IN ?", zoneIDs).
		Order("section_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sr *sectionRepo) Update(ctx context.Context, tx *gorm.DB, section *types.Section) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Save(section).Error; err != nil {
		return nil, err
	}

	return section, nil
}

func (sr *sectionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(sectionIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sectionIDs).
		Delete(&types.Section{}).Error; err != nil {
		return err
	}

	return nil
}
