package application

import (
	"context"
	"errors"
	"time"

	"offerless/internal/domain/application"
	"offerless/internal/pkg/logger"
	"offerless/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyPatch = errors.New("no fields to update")
	ErrInternal   = errors.New("internal error")
)

// ChangeListener hears about changes to an owner's record count.
type ChangeListener interface {
	ApplicationsChanged(ctx context.Context, ownerID uuid.UUID)
}

type Usecase interface {
	Create(ctx context.Context, ownerID uuid.UUID, in Input) (application.Application, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (application.Application, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, p Patch) (application.Application, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, params ListParams) (Page, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (application.Stats, error)
	Export(ctx context.Context, ownerID uuid.UUID) ([]application.Application, error)
	Import(ctx context.Context, ownerID uuid.UUID, rows []Input) (int, error)
}

type Service struct {
	apps      application.Repository
	validator *validation.Validator
	listener  ChangeListener
	logger    logrus.FieldLogger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.validator = newValidator(now) }
}

func WithChangeListener(l ChangeListener) Option {
	return func(s *Service) { s.listener = l }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(apps application.Repository, opts ...Option) *Service {
	s := &Service{
		apps:      apps,
		validator: newValidator(time.Now),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate normalises and checks a full record.
func (s *Service) Validate(in Input) (Input, error) {
	in = in.normalize()
	if err := s.validator.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in Input) (application.Application, error) {
	if in.LocationKind == "" {
		in.LocationKind = string(application.LocationOnsite)
	}
	in, err := s.Validate(in)
	if err != nil {
		return application.Application{}, err
	}

	a := in.toApplication()
	a.OwnerID = ownerID

	created, err := s.apps.Create(ctx, a)
	if err != nil {
		return application.Application{}, errors.Join(ErrInternal, err)
	}

	s.changed(ctx, ownerID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (application.Application, error) {
	a, err := s.apps.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, errors.Join(ErrInternal, err)
	}
	return a, nil
}

// Update loads the caller's record, merges the patch over it and validates
// the merged result, so cross-field rules see the record as it would be
// stored.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, p Patch) (application.Application, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return application.Application{}, err
	}
	if p.Empty() {
		return application.Application{}, ErrEmptyPatch
	}

	merged, err := s.Validate(p.apply(inputFrom(current)))
	if err != nil {
		return application.Application{}, err
	}

	next := merged.toApplication()
	next.ID = current.ID
	next.OwnerID = current.OwnerID

	updated, err := s.apps.Update(ctx, next)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, errors.Join(ErrInternal, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.apps.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.ErrNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	s.changed(ctx, ownerID)
	return nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, params ListParams) (Page, error) {
	f, page, size := params.Normalize()

	items, total, err := s.apps.List(ctx, ownerID, f)
	if err != nil {
		return Page{}, errors.Join(ErrInternal, err)
	}
	if items == nil {
		items = []application.Application{}
	}
	return Page{Items: items, Page: page, PageSize: size, Total: total}, nil
}

func (s *Service) Stats(ctx context.Context, ownerID uuid.UUID) (application.Stats, error) {
	st, err := s.apps.CountByStatus(ctx, ownerID)
	if err != nil {
		return application.Stats{}, errors.Join(ErrInternal, err)
	}
	return st, nil
}

func (s *Service) Export(ctx context.Context, ownerID uuid.UUID) ([]application.Application, error) {
	items, err := s.apps.ListAll(ctx, ownerID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return items, nil
}

// Import validates every row before writing any of them. A single invalid
// row rejects the whole batch with all row errors reported.
func (s *Service) Import(ctx context.Context, ownerID uuid.UUID, rows []Input) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyImport
	}
	if len(rows) > MaxImportRows {
		return 0, ErrTooManyRows
	}

	apps := make([]application.Application, 0, len(rows))
	var failed validation.Error
	for i, in := range rows {
		if in.LocationKind == "" {
			in.LocationKind = string(application.LocationOnsite)
		}
		valid, err := s.Validate(in)
		if err != nil {
			var verr *validation.Error
			if !errors.As(err, &verr) {
				return 0, err
			}
			failed.Fields = append(failed.Fields, verr.Prefix(rowPrefix(i+1)).Fields...)
			continue
		}
		a := valid.toApplication()
		a.OwnerID = ownerID
		apps = append(apps, a)
	}
	if len(failed.Fields) > 0 {
		return 0, &failed
	}

	n, err := s.apps.CreateMany(ctx, apps)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": ownerID.String(), "rows": n}).Info("applications imported")
	s.changed(ctx, ownerID)
	return n, nil
}

func (s *Service) changed(ctx context.Context, ownerID uuid.UUID) {
	if s.listener != nil {
		s.listener.ApplicationsChanged(ctx, ownerID)
	}
}
