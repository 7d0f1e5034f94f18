package leaderboard

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	UserID                 uuid.UUID `json:"user_id"`
	Username               string    `json:"username"`
	DisplayName            *string   `json:"display_name"`
	TotalApplications      int       `json:"total_applications"`
	ApplicationsLast30Days int       `json:"applications_last_30_days"`
	Rank                   int       `json:"rank"`
}

// Repository exposes the only cross-owner read in the system. It returns
// per-profile aggregates and never individual application rows.
type Repository interface {
	Standings(ctx context.Context, recentSince time.Time) ([]Entry, error)
}

// Rank orders entries by total applications, then by recent applications,
// then by username, and assigns 1-based ranks in place.
func Rank(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalApplications != b.TotalApplications {
			return a.TotalApplications > b.TotalApplications
		}
		if a.ApplicationsLast30Days != b.ApplicationsLast30Days {
			return a.ApplicationsLast30Days > b.ApplicationsLast30Days
		}
		return a.Username < b.Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
