package repository

import (
	"context"
	"time"

	"offerless/internal/database"
	"offerless/internal/domain/leaderboard"
)

type PostgresLeaderboardRepository struct {
	db database.DB
}

func NewPostgresLeaderboardRepository(db database.DB) *PostgresLeaderboardRepository {
	return &PostgresLeaderboardRepository{db: db}
}

// Standings aggregates application counts across every profile. This is the
// one query that is not scoped to a single owner, and it selects counts only.
func (r *PostgresLeaderboardRepository) Standings(ctx context.Context, recentSince time.Time) ([]leaderboard.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id,
		        p.username,
		        p.display_name,
		        COUNT(a.id) AS total_applications,
		        COUNT(a.id) FILTER (WHERE a.applied_at >= $1) AS applications_last_30_days
		 FROM profiles p
		 LEFT JOIN applications a ON a.owner_id = p.id
		 GROUP BY p.id, p.username, p.display_name
		 ORDER BY total_applications DESC, applications_last_30_days DESC, p.username ASC`,
		recentSince,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]leaderboard.Entry, 0)
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.UserID, &e.Username, &e.DisplayName, &e.TotalApplications, &e.ApplicationsLast30Days); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
