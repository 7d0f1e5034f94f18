package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("application not found")

type SortField string

const (
	SortByAppliedAt SortField = "applied_at"
	SortBySalary    SortField = "salary"
	SortByCompany   SortField = "company"
	SortByJobTitle  SortField = "job_title"
	SortByStatus    SortField = "status"
	SortByCreatedAt SortField = "created_at"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListFilter is an already-normalised listing request. Zero-valued fields do
// not constrain the result.
type ListFilter struct {
	Search       string
	Location     string
	LocationKind LocationKind
	Statuses     []Status
	From         *time.Time
	To           *time.Time
	SortBy       SortField
	SortOrder    SortOrder
	Limit        int
	Offset       int
}

// Repository methods are scoped to a single owner; a record owned by someone
// else is reported as ErrNotFound.
type Repository interface {
	Create(ctx context.Context, a Application) (Application, error)
	CreateMany(ctx context.Context, apps []Application) (int, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Application, error)
	Update(ctx context.Context, a Application) (Application, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, f ListFilter) ([]Application, int, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]Application, error)
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (Stats, error)
}
