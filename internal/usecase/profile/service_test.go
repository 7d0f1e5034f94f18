package profile

import (
	"context"
	"errors"
	"testing"

	"offerless/internal/domain/profile"
	"offerless/internal/pkg/optional"
	"offerless/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	byID  map[uuid.UUID]profile.Profile
	taken map[string]bool
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	if f.taken[p.Username] {
		return profile.Profile{}, profile.ErrUsernameTaken
	}
	f.byID[p.ID] = p
	return p, nil
}

func setup() (*Service, uuid.UUID) {
	id := uuid.New()
	dn := "Jane"
	repo := &fakeProfiles{
		byID:  map[uuid.UUID]profile.Profile{id: {ID: id, Username: "jane", DisplayName: &dn}},
		taken: map[string]bool{"bob": true},
	}
	return NewService(repo), id
}

func TestUpdate_ChangesAndClears(t *testing.T) {
	svc, id := setup()

	p, err := svc.Update(context.Background(), id, UpdateInput{
		Username:    optional.Of(" jane_doe "),
		DisplayName: optional.NullOf[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", p.Username)
	assert.Nil(t, p.DisplayName)
}

func TestUpdate_Rules(t *testing.T) {
	svc, id := setup()

	_, err := svc.Update(context.Background(), id, UpdateInput{Username: optional.Of("no spaces!")})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username", verr.Fields[0].Field)

	_, err = svc.Update(context.Background(), id, UpdateInput{Username: optional.Of("ab")})
	require.True(t, errors.As(err, &verr))

	_, err = svc.Update(context.Background(), id, UpdateInput{Username: optional.Of("bob")})
	assert.ErrorIs(t, err, profile.ErrUsernameTaken)

	_, err = svc.Update(context.Background(), id, UpdateInput{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestGet_Missing(t *testing.T) {
	svc, _ := setup()
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, profile.ErrNotFound)
}
