package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/data/repos"
	types "github.com/yungbote/mindtrack-backend/internal/domain"
	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*types.User, error)
}

// ProfileUpdate carries optional changes; nil fields are left alone.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Timezone  *string
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID, err := requestUserID(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return us.load(dbc, userID)
}

func (us *userService) load(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*types.User, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if update.Timezone != nil {
		tz := strings.TrimSpace(*update.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			return nil, fmt.Errorf("unknown timezone %q: %w", tz, pkgerrors.ErrInvalidArgument)
		}
		update.Timezone = &tz
	}

	var out *types.User
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := us.load(dbc, userID)
		if err != nil {
			return err
		}
		if update.FirstName != nil || update.LastName != nil {
			first, last := current.FirstName, current.LastName
			if update.FirstName != nil {
				first = strings.TrimSpace(*update.FirstName)
			}
			if update.LastName != nil {
				last = strings.TrimSpace(*update.LastName)
			}
			if first == "" || last == "" {
				return fmt.Errorf("names cannot be blank: %w", pkgerrors.ErrInvalidArgument)
			}
			if err := us.userRepo.UpdateName(dbc, userID, first, last); err != nil {
				return fmt.Errorf("update name: %w", err)
			}
		}
		if update.Timezone != nil {
			if err := us.userRepo.UpdateTimezone(dbc, userID, *update.Timezone); err != nil {
				return fmt.Errorf("update timezone: %w", err)
			}
		}
		out, err = us.load(dbc, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
