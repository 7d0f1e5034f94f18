package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"offerless/internal/pkg/optional"
	"offerless/internal/pkg/validation"
	appuc "offerless/internal/usecase/application"
)

// Amount is an optional number that also accepts a numeric string. An empty
// string counts as null.
type Amount struct {
	optional.Value[float64]
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Set = true
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		a.Null = true
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			a.Null = true
			return nil
		}
		v, err := appuc.ParseAmount(s)
		if err != nil {
			return notANumber()
		}
		a.Value.Value = v
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return notANumber()
	}
	a.Value.Value = v
	return nil
}

func notANumber() error {
	return &validation.Error{Fields: []validation.FieldError{{Field: "salary_amount", Message: "must be a number"}}}
}

// ApplicationPayload is the body of create and partial-update requests.
type ApplicationPayload struct {
	Company      optional.Value[string] `json:"company"`
	JobTitle     optional.Value[string] `json:"job_title"`
	AppliedAt    optional.Value[string] `json:"applied_at"`
	Status       optional.Value[string] `json:"status"`
	CompanyURL   optional.Value[string] `json:"company_url"`
	SalaryAmount Amount                 `json:"salary_amount"`
	SalaryType   optional.Value[string] `json:"salary_type"`
	Location     optional.Value[string] `json:"location"`
	LocationKind optional.Value[string] `json:"location_kind"`
}

func (p ApplicationPayload) ToInput() appuc.Input {
	return appuc.Input{
		Company:      p.Company.Value,
		JobTitle:     p.JobTitle.Value,
		AppliedAt:    p.AppliedAt.Value,
		Status:       p.Status.Value,
		CompanyURL:   p.CompanyURL.Value,
		SalaryAmount: p.SalaryAmount.Ptr(),
		SalaryType:   p.SalaryType.Ptr(),
		Location:     p.Location.Ptr(),
		LocationKind: p.LocationKind.Value,
	}
}

func (p ApplicationPayload) ToPatch() appuc.Patch {
	return appuc.Patch{
		Company:      p.Company,
		JobTitle:     p.JobTitle,
		AppliedAt:    p.AppliedAt,
		Status:       p.Status,
		CompanyURL:   p.CompanyURL,
		SalaryAmount: p.SalaryAmount.Value,
		SalaryType:   p.SalaryType,
		Location:     p.Location,
		LocationKind: p.LocationKind,
	}
}

type ProfilePayload struct {
	Username    optional.Value[string] `json:"username"`
	DisplayName optional.Value[string] `json:"display_name"`
}
