package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"offerless/internal/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_AcceptedForms(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		present bool
		null    bool
		value   float64
	}{
		{"absent", `{}`, false, false, 0},
		{"null", `{"salary_amount":null}`, true, true, 0},
		{"number", `{"salary_amount":125000}`, true, false, 125000},
		{"numeric string", `{"salary_amount":" 42.5 "}`, true, false, 42.5},
		{"empty string", `{"salary_amount":""}`, true, true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p ApplicationPayload
			require.NoError(t, json.Unmarshal([]byte(tc.body), &p))
			assert.Equal(t, tc.present, p.SalaryAmount.Set)
			assert.Equal(t, tc.null, p.SalaryAmount.Null)
			if tc.present && !tc.null {
				require.NotNil(t, p.ToInput().SalaryAmount)
				assert.Equal(t, tc.value, *p.ToInput().SalaryAmount)
			} else {
				assert.Nil(t, p.ToInput().SalaryAmount)
			}
		})
	}
}

func TestAmount_RejectsText(t *testing.T) {
	for _, body := range []string{
		`{"salary_amount":"ten"}`,
		`{"salary_amount":true}`,
		`{"salary_amount":"Infinity"}`,
		`{"salary_amount":"inf"}`,
		`{"salary_amount":"+Inf"}`,
		`{"salary_amount":"NaN"}`,
		`{"salary_amount":1e400}`,
	} {
		var p ApplicationPayload
		err := json.Unmarshal([]byte(body), &p)
		var verr *validation.Error
		require.True(t, errors.As(err, &verr), body)
		assert.Equal(t, "salary_amount", verr.Fields[0].Field)
	}
}

func TestApplicationPayload_ToPatchKeepsNulls(t *testing.T) {
	var p ApplicationPayload
	require.NoError(t, json.Unmarshal([]byte(`{"location":null,"status":"offer"}`), &p))

	patch := p.ToPatch()
	assert.True(t, patch.Location.Set)
	assert.True(t, patch.Location.Null)
	assert.Equal(t, "offer", patch.Status.Value)
	assert.False(t, patch.Company.Set)
	assert.False(t, patch.SalaryAmount.Set)
}
