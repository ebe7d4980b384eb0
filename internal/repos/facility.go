package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

type FacilityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, facilities []*types.Facility) ([]*types.Facility, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, facilityIDs []uuid.UUID) ([]*types.Facility, error)
	GetByFacilityCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Facility, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Facility, error)
	Update(ctx context.Context, tx *gorm.DB, facility *types.Facility) (*types.Facility, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, facilityIDs []uuid.UUID) error
}

type facilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFacilityRepo(db *gorm.DB, baseLog *logger.Logger) FacilityRepo {
	repoLog := baseLog.With("repo", "FacilityRepo")
	return &facilityRepo{db: db, log: repoLog}
}

func (fr *facilityRepo) Create(ctx context.Context, tx *gorm.DB, facilities []*types.Facility) ([]*types.Facility, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if len(facilities) == 0 {
		return []*types.Facility{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&facilities).Error; err != nil {
		return nil, err
	}

	return facilities, nil
}

func (fr *facilityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, facilityIDs []uuid.UUID) ([]*types.Facility, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.Facility

	if len(facilityIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", facilityIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (fr *facilityRepo) GetByFacilityCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Facility, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.Facility

	if len(codes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("facility_id IN ?", codes).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (fr *facilityRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Facility, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.Facility

	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (fr *facilityRepo) Update(ctx context.Context, tx *gorm.DB, facility *types.Facility) (*types.Facility, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if err := transaction.WithContext(ctx).Save(facility).Error; err != nil {
		return nil, err
	}

	return facility, nil
}

func (fr *facilityRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, facilityIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if len(facilityIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", facilityIDs).
		Delete(&types.Facility{}).Error; err != nil {
		return err
	}

	return nil
}
