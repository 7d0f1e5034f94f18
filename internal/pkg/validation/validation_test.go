package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHTTPURL(t *testing.T) {
	cases := map[string]bool{
		"https://a.com":          true,
		"http://a.com":           true,
		"https://a.com/jobs?x=1": true,
		"not-a-url":              false,
		"example.com":            false,
		"ftp://a.com":            false,
		"https://":               false,
		"http:///path":           false,
		"https://a .com":         false,
		"javascript:alert(1)":    false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsHTTPURL(in), in)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2026-02-03T23:30:00-02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("03/02/2026")
	assert.Error(t, err)
}

type sample struct {
	Name string `json:"name" validate:"required,min=2"`
	Day  string `json:"day" validate:"required,calendardate,notfuture"`
	URL  string `json:"url" validate:"omitempty,httpurl"`
	User string `json:"user" validate:"omitempty,username"`
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	v := New(func() time.Time { return now })

	err := v.Struct(sample{Name: "x", Day: "2026-05-11", URL: "example.com", User: "bad name"})
	var verr *Error
	require.True(t, errors.As(err, &verr))

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"name": "must be at least 2 characters",
		"day":  "cannot be in the future",
		"url":  "must be an absolute http(s) URL",
		"user": "may only contain letters, numbers, hyphens and underscores",
	}, got)
	assert.Contains(t, verr.Error(), "Validation error: ")
}

func TestValidator_TodayIsNotFuture(t *testing.T) {
	now := time.Date(2026, 5, 10, 0, 0, 1, 0, time.UTC)
	v := New(func() time.Time { return now })
	assert.NoError(t, v.Struct(sample{Name: "ok", Day: "2026-05-10"}))
}

func TestError_Prefix(t *testing.T) {
	e := (&Error{Fields: []FieldError{{Field: "company", Message: "is required"}}}).Prefix("row 3: ")
	assert.Equal(t, "Validation error: row 3: company: is required", e.Error())
}
