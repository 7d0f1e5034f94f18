package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"offerless/internal/domain/profile"
	"offerless/internal/pkg/optional"
	"offerless/internal/pkg/validation"

	"github.com/google/uuid"
)

var (
	ErrEmptyUpdate = errors.New("no fields to update")
	ErrInternal    = errors.New("internal error")
)

type UpdateInput struct {
	Username    optional.Value[string]
	DisplayName optional.Value[string]
}

type fields struct {
	Username    string  `json:"username" validate:"required,min=3,max=24,username"`
	DisplayName *string `json:"display_name" validate:"omitnil,max=50"`
}

type Usecase interface {
	Get(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (profile.Profile, error)
}

type Service struct {
	profiles  profile.Repository
	validator *validation.Validator
}

func NewService(profiles profile.Repository) *Service {
	return &Service{profiles: profiles, validator: validation.New(time.Now)}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Join(ErrInternal, err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (profile.Profile, error) {
	if !in.Username.Set && !in.DisplayName.Set {
		return profile.Profile{}, ErrEmptyUpdate
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	f := fields{Username: p.Username, DisplayName: p.DisplayName}
	if in.Username.Set {
		f.Username = strings.TrimSpace(in.Username.Value)
	}
	if in.DisplayName.Set {
		f.DisplayName = nil
		if dn := strings.TrimSpace(in.DisplayName.Value); in.DisplayName.Present() && dn != "" {
			f.DisplayName = &dn
		}
	}
	if err := s.validator.Struct(f); err != nil {
		return profile.Profile{}, err
	}

	p.Username = f.Username
	p.DisplayName = f.DisplayName
	updated, err := s.profiles.Update(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrUsernameTaken), errors.Is(err, profile.ErrNotFound):
			return profile.Profile{}, err
		default:
			return profile.Profile{}, errors.Join(ErrInternal, err)
		}
	}
	return updated, nil
}
