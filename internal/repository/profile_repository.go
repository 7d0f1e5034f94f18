package repository

import (
	"context"

	"offerless/internal/database"
	"offerless/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	var p profile.Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, username, display_name, created_at, updated_at
		 FROM profiles
		 WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Username, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	var out profile.Profile
	err := r.db.QueryRow(ctx,
		`UPDATE profiles
		 SET username = $2, display_name = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, username, display_name, created_at, updated_at`,
		p.ID, p.Username, p.DisplayName,
	).Scan(&out.ID, &out.Username, &out.DisplayName, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		if database.IsUniqueViolation(err) {
			return profile.Profile{}, profile.ErrUsernameTaken
		}
		return profile.Profile{}, err
	}
	return out, nil
}

// Create is used by the demo seeder; in production profiles are created by
// the auth service's sign-up trigger.
func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, username, display_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Username, p.DisplayName,
	)
	if database.IsUniqueViolation(err) {
		return profile.ErrUsernameTaken
	}
	return err
}
