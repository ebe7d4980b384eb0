package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

type ZoneRepo interface {
	Create(ctx context.Context, tx *gorm.DB, zones []*types.Zone) ([]*types.Zone, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Zone, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, zoneIDs []uuid.UUID) ([]*types.Zone, error)
	GetByNumbers(ctx context.Context, tx *gorm.DB, zoneNumbers []string) ([]*types.Zone, error)
	Update(ctx context.Context, tx *gorm.DB, zone *types.Zone) (*types.Zone, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, zoneIDs []uuid.UUID) error
}

type zoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewZoneRepo(db *gorm.DB, baseLog *logger.Logger) ZoneRepo {
	repoLog := baseLog.With("repo", "ZoneRepo")
	return &zoneRepo{db: db, log: repoLog}
}

func (zr *zoneRepo) Create(ctx context.Context, tx *gorm.DB, zones []*types.Zone) ([]*types.Zone, error) {
	transaction := tx
	if transaction == nil {
		transaction = zr.db
	}

	if len(zones) == 0 {
		return []*types.Zone{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&zones).Error; err != nil {
		return nil, err
	}

	return zones, nil
}

func (zr *zoneRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Zone, error) {
	transaction := tx
	if transaction == nil {
		transaction = zr.db
	}

	var results []*types.Zone

	if err := transaction.WithContext(ctx).
		Order("zone_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (zr *zoneRepo) GetByIDs(ctx context.Context, tx *gorm.DB, zoneIDs []uuid.UUID) ([]*types.Zone, error) {
	transaction := tx
	if transaction == nil {
		transaction = zr.db
	}

	var results []*types.Zone

	if len(zoneIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", zoneIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (zr *zoneRepo) GetByNumbers(ctx context.Context, tx *gorm.DB, zoneNumbers []string) ([]*types.Zone, error) {
	transaction := tx
	if transaction == nil {
		transaction = zr.db
	}

	var results []*types.Zone

	if len(zoneNumbers) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("zone_number IN ?", zoneNumbers).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (zr *zoneRepo) Update(ctx context.Context, tx *gorm.DB, zone *types.Zone) (*types.Zone, error) {
	transaction := tx
	if transaction == nil {
		transaction = zr.db
	}

	if err := transaction.WithContext(ctx).Save(zone).Error; err != nil {
		return nil, err
	}

	return zone, nil
}

func (zr *zoneRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, zoneIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = zr.db
	}

	if len(zoneIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", zoneIDs).
		Delete(&types.Zone{}).Error; err != nil {
		return err
	}

	return nil
}
