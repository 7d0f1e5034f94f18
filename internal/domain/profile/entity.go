package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Profile struct {
	ID          uuid.UUID
	Username    string
	DisplayName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
}
