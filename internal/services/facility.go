package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/types"
)

const facilityCodeAttempts = 5

type CreateFacilityInput struct {
	Name       string
	SiteType   string
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
	NPI        string
}

type FacilityService interface {
	CreateFacility(ctx context.Context, input CreateFacilityInput) (*types.Facility, error)
	GetFacility(ctx context.Context, facilityID uuid.UUID) (*types.Facility, error)
	GetFacilities(ctx context.Context) ([]*types.Facility, error)
	UpdateFacility(ctx context.Context, facility *types.Facility) (*types.Facility, error)
	DeleteFacility(ctx context.Context, facilityID uuid.UUID) error
}

type facilityService struct {
	db           *gorm.DB
	log          *logger.Logger
	facilityRepo repos.FacilityRepo
	rng          *rand.Rand
}

func NewFacilityService(db *gorm.DB, log *logger.Logger, facilityRepo repos.FacilityRepo, rng *rand.Rand) FacilityService {
	serviceLog := log.With("service", "FacilityService")
	return &facilityService{
		db:           db,
		log:          serviceLog,
		facilityRepo: facilityRepo,
		rng:          rng,
	}
}

// facilityCode builds "TYPE-NAME-XXXX" from the site type, the first word of
// the name, and a random 4-digit suffix.
func (fs *facilityService) facilityCode(name, siteType string) string {
	typePart := "SITE"
	if siteType != "" {
		typePart = strings.ToUpper(strings.Fields(siteType)[0])
		if len(typePart) > 4 {
			typePart = typePart[:4]
		}
	}
	namePart := "UNKN"
	if fields := strings.Fields(name); len(fields) > 0 {
		namePart = strings.ToUpper(fields[0])
		if len(namePart) > 4 {
			namePart = namePart[:4]
		}
	}
	return fmt.Sprintf("%s-%s-%04d", typePart, namePart, fs.rng.Intn(10000))
}

func (fs *facilityService) CreateFacility(ctx context.Context, input CreateFacilityInput) (*types.Facility, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("facility name is required")
	}

	var created *types.Facility
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code := ""
		for attempt := 0; attempt < facilityCodeAttempts; attempt++ {
			candidate := fs.facilityCode(input.Name, input.SiteType)
			existing, err := fs.facilityRepo.GetByFacilityCodes(ctx, tx, []string{candidate})
			if err != nil {
				return fmt.Errorf("Failed to check facility code: %w", err)
			}
			if len(existing) == 0 {
				code = candidate
				break
			}
		}
		if code == "" {
			return fmt.Errorf("Failed to generate a unique facility code")
		}

		facility := &types.Facility{
			ID:         uuid.New(),
			FacilityID: code,
			Name:       strings.TrimSpace(input.Name),
			SiteType:   input.SiteType,
			Address:    input.Address,
			City:       input.City,
			State:      input.State,
			Country:    input.Country,
			PostalCode: input.PostalCode,
			NPI:        input.NPI,
			Status:     "active",
		}
		rows, err := fs.facilityRepo.Create(ctx, tx, []*types.Facility{facility})
		if err != nil {
			return fmt.Errorf("Failed to create facility: %w", err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	fs.log.Info("Created facility", "facilityId", created.ID, "code", created.FacilityID)
	return created, nil
}

func (fs *facilityService) GetFacility(ctx context.Context, facilityID uuid.UUID) (*types.Facility, error) {
	facilities, err := fs.facilityRepo.GetByIDs(ctx, nil, []uuid.UUID{facilityID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get facility: %w", err)
	}
	if len(facilities) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return facilities[0], nil
}

func (fs *facilityService) GetFacilities(ctx context.Context) ([]*types.Facility, error) {
	return fs.facilityRepo.GetAll(ctx, nil)
}

func (fs *facilityService) UpdateFacility(ctx context.Context, facility *types.Facility) (*types.Facility, error) {
	updated, err := fs.facilityRepo.Update(ctx, nil, facility)
	if err != nil {
		return nil, fmt.Errorf("Failed to update facility: %w", err)
	}
	return updated, nil
}

func (fs *facilityService) DeleteFacility(ctx context.Context, facilityID uuid.UUID) error {
	if err := fs.facilityRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{facilityID}); err != nil {
		return fmt.Errorf("Failed to delete facility: %w", err)
	}
	return nil
}
