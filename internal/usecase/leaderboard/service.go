package leaderboard

import (
	"context"
	"errors"
	"time"

	"offerless/internal/domain/leaderboard"
	"offerless/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	CacheKey = "leaderboard:standings"
	lockKey  = "leaderboard:lock"

	RecentWindow = 30 * 24 * time.Hour

	EventUpdated = "leaderboard_updated"
)

var ErrInternal = errors.New("internal error")

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// Broadcaster pushes an event to connected live clients.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// Row is one leaderboard line as seen by a particular viewer.
type Row struct {
	Rank                   int
	Username               string
	DisplayName            *string
	TotalApplications      int
	ApplicationsLast30Days int
	IsCurrentUser          bool
}

type Service struct {
	repo   leaderboard.Repository
	cache  Cache
	ttl    time.Duration
	events Broadcaster
	logger logrus.FieldLogger

	now      func() time.Time
	lockWait time.Duration
}

func NewService(repo leaderboard.Repository, cache Cache, ttl time.Duration, events Broadcaster, log logrus.FieldLogger) *Service {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		events:   events,
		logger:   log,
		now:      time.Now,
		lockWait: 150 * time.Millisecond,
	}
}

// Standings returns the ranked leaderboard, flagging the viewer's own line.
func (s *Service) Standings(ctx context.Context, viewer uuid.UUID) ([]Row, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Rank:                   e.Rank,
			Username:               e.Username,
			DisplayName:            e.DisplayName,
			TotalApplications:      e.TotalApplications,
			ApplicationsLast30Days: e.ApplicationsLast30Days,
			IsCurrentUser:          e.UserID == viewer,
		})
	}
	return rows, nil
}

func (s *Service) entries(ctx context.Context) ([]leaderboard.Entry, error) {
	if cached, ok := s.cached(ctx); ok {
		return cached, nil
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.SetIfNotExists(ctx, lockKey, "1", 10*time.Second)
		switch {
		case err == nil && ok:
			locked = true
		case err == nil && !ok:
			// Someone else is rebuilding; give them a moment before querying.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.lockWait):
			}
			if cached, ok := s.cached(ctx); ok {
				return cached, nil
			}
		}
	}

	since := s.now().UTC().Add(-RecentWindow).Truncate(24 * time.Hour)
	entries, err := s.repo.Standings(ctx, since)
	if err != nil {
		if locked {
			_ = s.cache.Delete(ctx, lockKey)
		}
		return nil, errors.Join(ErrInternal, err)
	}
	entries = leaderboard.Rank(entries)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, CacheKey, entries, s.ttl); err != nil {
			s.logger.WithError(err).Debug("leaderboard cache set failed")
		}
		if locked {
			_ = s.cache.Delete(ctx, lockKey)
		}
	}
	return entries, nil
}

func (s *Service) cached(ctx context.Context) ([]leaderboard.Entry, bool) {
	if s.cache == nil {
		return nil, false
	}
	var entries []leaderboard.Entry
	hit, err := s.cache.GetJSON(ctx, CacheKey, &entries)
	if err != nil || !hit {
		return nil, false
	}
	s.logger.WithField("key", CacheKey).Debug("leaderboard cache hit")
	return entries, true
}

// ApplicationsChanged drops the cached standings and tells live clients to
// refetch.
func (s *Service) ApplicationsChanged(ctx context.Context, ownerID uuid.UUID) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, CacheKey); err != nil {
			s.logger.WithError(err).Warn("leaderboard cache invalidation failed")
		}
	}
	if s.events != nil {
		s.events.Broadcast(EventUpdated, nil)
	}
	s.logger.WithField("user_id", ownerID.String()).Debug("leaderboard invalidated")
}
