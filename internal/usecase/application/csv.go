package application

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"offerless/internal/domain/application"
	"offerless/internal/pkg/validation"
)

const MaxImportRows = 1000

var (
	ErrEmptyImport = errors.New("import contains no rows")
	ErrTooManyRows = fmt.Errorf("import is limited to %d rows", MaxImportRows)
	ErrInvalidCSV  = errors.New("invalid CSV")
)

// CSVHeader is the column order of exports. Imports match columns by name,
// in any order.
var CSVHeader = []string{
	"company",
	"job_title",
	"applied_at",
	"status",
	"company_url",
	"salary_amount",
	"salary_type",
	"location",
	"location_kind",
}

var headerAliases = map[string]string{
	"location_label": "location",
}

var requiredColumns = []string{"company", "job_title", "applied_at", "status"}

func WriteCSV(w io.Writer, apps []application.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, a := range apps {
		rec := []string{
			a.Company,
			a.JobTitle,
			a.AppliedAt.Format(application.DateLayout),
			string(a.Status),
			a.CompanyURL,
			"",
			"",
			"",
			string(a.LocationKind),
		}
		if a.SalaryAmount != nil {
			rec[5] = strconv.FormatFloat(*a.SalaryAmount, 'f', -1, 64)
		}
		if a.SalaryType != nil {
			rec[6] = string(*a.SalaryType)
		}
		if a.Location != nil {
			rec[7] = *a.Location
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads an import file. Structural problems return ErrInvalidCSV;
// values that cannot be converted (non-numeric salary) are reported as a
// *validation.Error naming the row.
func ParseCSV(r io.Reader) ([]Input, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyImport
		}
		return nil, errors.Join(ErrInvalidCSV, err)
	}

	cols := map[string]int{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidCSV, c)
		}
	}

	var (
		rows   []Input
		failed validation.Error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrInvalidCSV, err)
		}
		if blankRecord(rec) {
			continue
		}
		if len(rows) >= MaxImportRows {
			return nil, ErrTooManyRows
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		in := Input{
			Company:      get("company"),
			JobTitle:     get("job_title"),
			AppliedAt:    get("applied_at"),
			Status:       get("status"),
			CompanyURL:   get("company_url"),
			LocationKind: get("location_kind"),
		}
		if v := get("salary_amount"); v != "" {
			n, err := ParseAmount(v)
			if err != nil {
				failed.Fields = append(failed.Fields, validation.FieldError{
					Field:   rowPrefix(len(rows)+1) + "salary_amount",
					Message: "must be a number",
				})
			} else {
				in.SalaryAmount = &n
			}
		}
		if v := get("salary_type"); v != "" {
			in.SalaryType = &v
		}
		if v := get("location"); v != "" {
			in.Location = &v
		}
		rows = append(rows, in)
	}

	if len(failed.Fields) > 0 {
		return nil, &failed
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	return rows, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func rowPrefix(n int) string {
	return "row " + strconv.Itoa(n) + ": "
}
