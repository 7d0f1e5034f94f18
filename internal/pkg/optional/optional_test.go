package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Name  Value[string]  `json:"name"`
	Count Value[float64] `json:"count"`
	Tag   Value[string]  `json:"tag"`
}

func TestValue_DistinguishesAbsentNullAndSet(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","count":null}`), &p))

	assert.True(t, p.Name.Present())
	assert.Equal(t, "x", p.Name.Value)

	assert.True(t, p.Count.Set)
	assert.True(t, p.Count.Null)
	assert.Nil(t, p.Count.Ptr())

	assert.False(t, p.Tag.Set)
	assert.Nil(t, p.Tag.Ptr())
}

func TestValue_TypeMismatchFails(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"count":{"a":1}}`), &p))
}
