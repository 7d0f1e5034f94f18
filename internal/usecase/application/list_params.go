package application

import (
	"strconv"
	"strings"

	"offerless/internal/domain/application"
	"offerless/internal/pkg/validation"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100

	maxPage = 1_000_000
)

// ListParams holds the raw query-string values of a listing request.
type ListParams struct {
	Q            string
	Location     string
	LocationKind string
	Status       string
	From         string
	To           string
	SortBy       string
	SortOrder    string
	Page         string
	PageSize     string
}

type Page struct {
	Items    []application.Application
	Page     int
	PageSize int
	Total    int
}

// Normalize never fails: unusable values fall back to their defaults or are
// dropped from the filter.
func (p ListParams) Normalize() (application.ListFilter, int, int) {
	page := 1
	if n, err := strconv.Atoi(strings.TrimSpace(p.Page)); err == nil && n > 1 {
		page = min(n, maxPage)
	}
	size := DefaultPageSize
	if n, err := strconv.Atoi(strings.TrimSpace(p.PageSize)); err == nil {
		size = min(max(n, 1), MaxPageSize)
	}

	f := application.ListFilter{
		Search:    strings.TrimSpace(p.Q),
		Location:  strings.TrimSpace(p.Location),
		SortBy:    application.SortByAppliedAt,
		SortOrder: application.SortDesc,
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	if k := application.LocationKind(strings.ToLower(strings.TrimSpace(p.LocationKind))); k.Valid() {
		f.LocationKind = k
	}

	seen := map[application.Status]bool{}
	for _, raw := range strings.Split(p.Status, ",") {
		st := application.Status(strings.ToLower(strings.TrimSpace(raw)))
		if st.Valid() && !seen[st] {
			seen[st] = true
			f.Statuses = append(f.Statuses, st)
		}
	}

	if d, err := validation.ParseDate(p.From); err == nil {
		f.From = &d
	}
	if d, err := validation.ParseDate(p.To); err == nil {
		f.To = &d
	}

	switch sb := application.SortField(strings.ToLower(strings.TrimSpace(p.SortBy))); sb {
	case application.SortByAppliedAt, application.SortBySalary, application.SortByCompany,
		application.SortByJobTitle, application.SortByStatus, application.SortByCreatedAt:
		f.SortBy = sb
	}
	if strings.EqualFold(strings.TrimSpace(p.SortOrder), string(application.SortAsc)) {
		f.SortOrder = application.SortAsc
	}

	return f, page, size
}
