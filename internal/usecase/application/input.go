package application

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"offerless/internal/domain/application"
	"offerless/internal/pkg/optional"
	"offerless/internal/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Input is a complete application record as submitted by a client, before
// conversion to the domain type.
type Input struct {
	Company      string   `json:"company" validate:"required,min=2,max=80"`
	JobTitle     string   `json:"job_title" validate:"required,min=2,max=80"`
	AppliedAt    string   `json:"applied_at" validate:"required,calendardate,notfuture"`
	Status       string   `json:"status" validate:"required,oneof=applied interviewing rejected ghosted offer"`
	CompanyURL   string   `json:"company_url" validate:"omitempty,max=2048,httpurl"`
	SalaryAmount *float64 `json:"salary_amount" validate:"omitnil,gte=0,lte=1000000000"`
	SalaryType   *string  `json:"salary_type" validate:"omitnil,oneof=salary hourly"`
	Location     *string  `json:"location" validate:"omitnil,max=120"`
	LocationKind string   `json:"location_kind" validate:"required,oneof=onsite remote hybrid"`
}

// ErrNotANumber is returned by ParseAmount for text, NaN and infinities.
var ErrNotANumber = errors.New("not a finite number")

// ParseAmount parses a salary amount from text. Only finite values are
// accepted.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotANumber
	}
	return v, nil
}

// Patch carries the members of a partial update. Absent members keep the
// stored value; null clears optional members.
type Patch struct {
	Company      optional.Value[string]
	JobTitle     optional.Value[string]
	AppliedAt    optional.Value[string]
	Status       optional.Value[string]
	CompanyURL   optional.Value[string]
	SalaryAmount optional.Value[float64]
	SalaryType   optional.Value[string]
	Location     optional.Value[string]
	LocationKind optional.Value[string]
}

func (p Patch) Empty() bool {
	return !p.Company.Set && !p.JobTitle.Set && !p.AppliedAt.Set && !p.Status.Set &&
		!p.CompanyURL.Set && !p.SalaryAmount.Set && !p.SalaryType.Set &&
		!p.Location.Set && !p.LocationKind.Set
}

func newValidator(now func() time.Time) *validation.Validator {
	v := validation.New(now)
	v.RegisterStructRule(salaryPairRule, Input{})
	return v
}

func salaryPairRule(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	if (in.SalaryAmount == nil) != (in.SalaryType == nil) {
		if in.SalaryAmount == nil {
			sl.ReportError(in.SalaryAmount, "salary_amount", "SalaryAmount", validation.TagSalaryPair, "")
			return
		}
		sl.ReportError(in.SalaryType, "salary_type", "SalaryType", validation.TagSalaryPair, "")
	}
}

// normalize trims text fields and folds empty optional text to absent.
func (in Input) normalize() Input {
	in.Company = strings.TrimSpace(in.Company)
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.AppliedAt = strings.TrimSpace(in.AppliedAt)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.CompanyURL = strings.TrimSpace(in.CompanyURL)
	in.LocationKind = strings.ToLower(strings.TrimSpace(in.LocationKind))
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if loc == "" {
			in.Location = nil
		} else {
			in.Location = &loc
		}
	}
	if in.SalaryType != nil {
		st := strings.ToLower(strings.TrimSpace(*in.SalaryType))
		if st == "" {
			in.SalaryType = nil
		} else {
			in.SalaryType = &st
		}
	}
	return in
}

// apply merges the patch over in.
func (p Patch) apply(in Input) Input {
	if p.Company.Set {
		in.Company = p.Company.Value
	}
	if p.JobTitle.Set {
		in.JobTitle = p.JobTitle.Value
	}
	if p.AppliedAt.Set {
		in.AppliedAt = p.AppliedAt.Value
	}
	if p.Status.Set {
		in.Status = p.Status.Value
	}
	if p.CompanyURL.Set {
		in.CompanyURL = p.CompanyURL.Value
	}
	if p.SalaryAmount.Set {
		in.SalaryAmount = p.SalaryAmount.Ptr()
	}
	if p.SalaryType.Set {
		in.SalaryType = p.SalaryType.Ptr()
	}
	if p.Location.Set {
		in.Location = p.Location.Ptr()
	}
	if p.LocationKind.Set {
		in.LocationKind = p.LocationKind.Value
	}
	return in
}

func inputFrom(a application.Application) Input {
	in := Input{
		Company:      a.Company,
		JobTitle:     a.JobTitle,
		AppliedAt:    a.AppliedAt.Format(application.DateLayout),
		Status:       string(a.Status),
		CompanyURL:   a.CompanyURL,
		LocationKind: string(a.LocationKind),
	}
	if a.SalaryAmount != nil {
		v := *a.SalaryAmount
		in.SalaryAmount = &v
	}
	if a.SalaryType != nil {
		v := string(*a.SalaryType)
		in.SalaryType = &v
	}
	if a.Location != nil {
		v := *a.Location
		in.Location = &v
	}
	return in
}

// toApplication assumes in has passed validation.
func (in Input) toApplication() application.Application {
	applied, _ := validation.ParseDate(in.AppliedAt)
	a := application.Application{
		Company:      in.Company,
		JobTitle:     in.JobTitle,
		AppliedAt:    applied,
		Status:       application.Status(in.Status),
		CompanyURL:   in.CompanyURL,
		SalaryAmount: in.SalaryAmount,
		Location:     in.Location,
		LocationKind: application.LocationKind(in.LocationKind),
	}
	if in.SalaryType != nil {
		st := application.SalaryType(*in.SalaryType)
		a.SalaryType = &st
	}
	return a
}
