package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"offerless/internal/domain/leaderboard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	entries []leaderboard.Entry
	since   time.Time
	calls   int
	err     error
}

func (f *fakeRepo) Standings(_ context.Context, since time.Time) ([]leaderboard.Entry, error) {
	f.calls++
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	out := make([]leaderboard.Entry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memCache) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = []byte(value)
	return true, nil
}

type broadcastSpy struct {
	events []string
}

func (b *broadcastSpy) Broadcast(eventType string, _ any) {
	b.events = append(b.events, eventType)
}

func TestStandings_RanksAndFlagsViewer(t *testing.T) {
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	repo := &fakeRepo{entries: []leaderboard.Entry{
		{UserID: bob, Username: "bob", TotalApplications: 5, ApplicationsLast30Days: 1},
		{UserID: carol, Username: "carol", TotalApplications: 5, ApplicationsLast30Days: 4},
		{UserID: alice, Username: "alice", TotalApplications: 9},
	}}
	svc := NewService(repo, nil, time.Minute, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC) }

	rows, err := svc.Standings(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"alice", "carol", "bob"}, []string{rows[0].Username, rows[1].Username, rows[2].Username})
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
	assert.True(t, rows[2].IsCurrentUser)
	assert.False(t, rows[0].IsCurrentUser)
	assert.Equal(t, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC), repo.since)
}

func TestStandings_UsesCacheUntilInvalidated(t *testing.T) {
	repo := &fakeRepo{entries: []leaderboard.Entry{{UserID: uuid.New(), Username: "a", TotalApplications: 1}}}
	cache := newMemCache()
	spy := &broadcastSpy{}
	svc := NewService(repo, cache, 45*time.Second, spy, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Standings(context.Background(), uuid.New())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 45*time.Second, cache.ttls[CacheKey])
	_, lockHeld := cache.data[lockKey]
	assert.False(t, lockHeld)

	svc.ApplicationsChanged(context.Background(), uuid.New())
	assert.Equal(t, []string{EventUpdated}, spy.events)

	_, err := svc.Standings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestStandings_LockHeldFallsBackToQuery(t *testing.T) {
	repo := &fakeRepo{}
	cache := newMemCache()
	cache.data[lockKey] = []byte("1")
	svc := NewService(repo, cache, time.Minute, nil, nil)
	svc.lockWait = time.Millisecond

	rows, err := svc.Standings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, repo.calls)
}

func TestStandings_StoreError(t *testing.T) {
	cache := newMemCache()
	svc := NewService(&fakeRepo{err: errors.New("boom")}, cache, time.Minute, nil, nil)

	_, err := svc.Standings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrInternal)
	_, lockHeld := cache.data[lockKey]
	assert.False(t, lockHeld)
}
