package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/types"
)

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *string
}

type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetUsers(ctx context.Context) ([]*types.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
	}
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get user: %w", err)
	}
	if len(users) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return users[0], nil
}

func (us *userService) GetUsers(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.GetAll(ctx, nil)
}

func (us *userService) UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error) {
	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("Failed to get user: %w", err)
		}
		if len(users) == 0 {
			return gorm.ErrRecordNotFound
		}
		user := users[0]
		if input.FirstName != nil {
			user.FirstName = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil {
			user.LastName = strings.TrimSpace(*input.LastName)
		}
		if input.Role != nil {
			role := strings.ToLower(strings.TrimSpace(*input.Role))
			switch role {
			case types.UserRoleAdmin, types.UserRoleManager, types.UserRoleViewer:
			default:
				return fmt.Errorf("invalid role %q", *input.Role)
			}
			user.Role = role
		}
		updated, err = us.userRepo.Update(ctx, tx, user)
		if err != nil {
			return fmt.Errorf("Failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (us *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{userID}); err != nil {
			return fmt.Errorf("Failed to delete user tokens: %w", err)
		}
		if err := us.userRepo.DeleteByIDs(ctx, tx, []uuid.UUID{userID}); err != nil {
			return fmt.Errorf("Failed to delete user: %w", err)
		}
		return nil
	})
}
