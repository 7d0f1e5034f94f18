package dto

import (
	"time"

	"offerless/internal/domain/profile"
	lbuc "offerless/internal/usecase/leaderboard"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type LeaderboardRowResponse struct {
	Rank                   int     `json:"rank"`
	Username               string  `json:"username"`
	DisplayName            *string `json:"display_name"`
	TotalApplications      int     `json:"total_applications"`
	ApplicationsLast30Days int     `json:"applications_last_30_days"`
	IsCurrentUser          bool    `json:"is_current_user"`
}

func NewLeaderboardResponse(rows []lbuc.Row) []LeaderboardRowResponse {
	res := make([]LeaderboardRowResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, LeaderboardRowResponse{
			Rank:                   r.Rank,
			Username:               r.Username,
			DisplayName:            r.DisplayName,
			TotalApplications:      r.TotalApplications,
			ApplicationsLast30Days: r.ApplicationsLast30Days,
			IsCurrentUser:          r.IsCurrentUser,
		})
	}
	return res
}
