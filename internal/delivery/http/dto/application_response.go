package dto

import (
	"time"

	"offerless/internal/domain/application"
	appuc "offerless/internal/usecase/application"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Company      string    `json:"company"`
	JobTitle     string    `json:"job_title"`
	AppliedAt    string    `json:"applied_at"`
	Status       string    `json:"status"`
	CompanyURL   *string   `json:"company_url"`
	SalaryAmount *float64  `json:"salary_amount"`
	SalaryType   *string   `json:"salary_type"`
	Location     *string   `json:"location"`
	LocationKind string    `json:"location_kind"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	res := ApplicationResponse{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Company:      a.Company,
		JobTitle:     a.JobTitle,
		AppliedAt:    a.AppliedAt.Format(application.DateLayout),
		Status:       string(a.Status),
		SalaryAmount: a.SalaryAmount,
		Location:     a.Location,
		LocationKind: string(a.LocationKind),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.CompanyURL != "" {
		u := a.CompanyURL
		res.CompanyURL = &u
	}
	if a.SalaryType != nil {
		st := string(*a.SalaryType)
		res.SalaryType = &st
	}
	return res
}

type ApplicationListResponse struct {
	Items    []ApplicationResponse `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Total    int                   `json:"total"`
}

func NewApplicationListResponse(p appuc.Page) ApplicationListResponse {
	items := make([]ApplicationResponse, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, NewApplicationResponse(a))
	}
	return ApplicationListResponse{Items: items, Page: p.Page, PageSize: p.PageSize, Total: p.Total}
}

type StatsResponse struct {
	Total        int `json:"total"`
	Applied      int `json:"applied"`
	Interviewing int `json:"interviewing"`
	Rejected     int `json:"rejected"`
	Ghosted      int `json:"ghosted"`
	Offer        int `json:"offer"`
}

func NewStatsResponse(s application.Stats) StatsResponse {
	return StatsResponse{
		Total:        s.Total,
		Applied:      s.Applied,
		Interviewing: s.Interviewing,
		Rejected:     s.Rejected,
		Ghosted:      s.Ghosted,
		Offer:        s.Offer,
	}
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
