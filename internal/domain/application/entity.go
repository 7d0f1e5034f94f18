package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusGhosted      Status = "ghosted"
	StatusOffer        Status = "offer"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusRejected, StatusGhosted, StatusOffer}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type LocationKind string

const (
	LocationOnsite LocationKind = "onsite"
	LocationRemote LocationKind = "remote"
	LocationHybrid LocationKind = "hybrid"
)

var LocationKinds = []LocationKind{LocationOnsite, LocationRemote, LocationHybrid}

func (k LocationKind) Valid() bool {
	for _, v := range LocationKinds {
		if k == v {
			return true
		}
	}
	return false
}

type SalaryType string

const (
	SalaryTypeSalary SalaryType = "salary"
	SalaryTypeHourly SalaryType = "hourly"
)

// HoursPerYear converts hourly rates to a yearly figure (40h x 52w).
const HoursPerYear = 2080

// DateLayout is the wire and storage format of AppliedAt.
const DateLayout = "2006-01-02"

type Application struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Company      string
	JobTitle     string
	AppliedAt    time.Time
	Status       Status
	CompanyURL   string
	SalaryAmount *float64
	SalaryType   *SalaryType
	Location     *string
	LocationKind LocationKind
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AnnualizedSalary reports the yearly equivalent of the salary fields, or
// false when no salary was recorded.
func (a Application) AnnualizedSalary() (float64, bool) {
	if a.SalaryAmount == nil || a.SalaryType == nil {
		return 0, false
	}
	if *a.SalaryType == SalaryTypeHourly {
		return *a.SalaryAmount * HoursPerYear, true
	}
	return *a.SalaryAmount, true
}

type Stats struct {
	Total        int
	Applied      int
	Interviewing int
	Rejected     int
	Ghosted      int
	Offer        int
}

// Add counts n records with the given status.
func (s *Stats) Add(status Status, n int) {
	switch status {
	case StatusApplied:
		s.Applied += n
	case StatusInterviewing:
		s.Interviewing += n
	case StatusRejected:
		s.Rejected += n
	case StatusGhosted:
		s.Ghosted += n
	case StatusOffer:
		s.Offer += n
	default:
		return
	}
	s.Total += n
}
