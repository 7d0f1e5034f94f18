package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"

	// TagSalaryPair is reported by struct-level rules that require two
	// fields to be supplied together.
	TagSalaryPair = "salarypair"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "Validation error: " + strings.Join(parts, "; ")
}

// Prefix returns a copy whose field names carry prefix, e.g. "row 3: company".
func (e *Error) Prefix(prefix string) *Error {
	out := &Error{Fields: make([]FieldError, 0, len(e.Fields))}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, FieldError{Field: prefix + f.Field, Message: f.Message})
	}
	return out
}

// Validator wraps validator/v10 with the rules this service needs:
//
//	httpurl       absolute http or https URL with a host
//	calendardate  YYYY-MM-DD or RFC 3339
//	notfuture     calendar date not after today (UTC)
//	username      letters, digits, '_' and '-'
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(val.v, "httpurl", func(fl validator.FieldLevel) bool {
		return IsHTTPURL(fl.Field().String())
	})
	mustRegister(val.v, "calendardate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	mustRegister(val.v, "notfuture", func(fl validator.FieldLevel) bool {
		d, err := ParseDate(fl.Field().String())
		if err != nil {
			// reported by calendardate
			return true
		}
		return !d.After(val.now().UTC())
	})
	mustRegister(val.v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// RegisterStructRule adds a struct-level rule for the type of sample.
func (val *Validator) RegisterStructRule(fn validator.StructLevelFunc, sample any) {
	val.v.RegisterStructValidation(fn, sample)
}

// Struct validates s and returns *Error on rule failures.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "httpurl":
		return "must be an absolute http(s) URL"
	case "calendardate":
		return "must be a date in YYYY-MM-DD format"
	case "notfuture":
		return "cannot be in the future"
	case "username":
		return "may only contain letters, numbers, hyphens and underscores"
	case TagSalaryPair:
		return "salary_amount and salary_type must be provided together"
	default:
		return "is invalid"
	}
}

// IsHTTPURL accepts absolute http/https URLs with a host and nothing else.
func IsHTTPURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && u.Hostname() != ""
}

// ParseDate reads YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
