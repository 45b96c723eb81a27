package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpecs = `{
  "Display": {"Screen Size": "6.2 inches", "Refresh Rate": 120},
  "Os": {"Operating System": "Android 14"},
  "Colors": ["Black", "Cream"],
  "Camera": {"Rear": {"Main": "50 MP", "Zoom": "3x"}, "Front": "12 MP"},
  "Weight": "167 g",
  "Dual Sim": true
}`

func TestSpecs_PreservesOrderAndKinds(t *testing.T) {
	var s Specs
	require.NoError(t, json.Unmarshal([]byte(sampleSpecs), &s))

	keys := make([]string, 0, len(s))
	for _, n := range s {
		keys = append(keys, n.Key)
	}
	assert.Equal(t, []string{"Display", "Os", "Colors", "Camera", "Weight", "Dual Sim"}, keys)

	assert.Equal(t, SpecMap, s[0].Kind)
	assert.Equal(t, "120", s[0].Children[1].Value)
	assert.Equal(t, SpecList, s[2].Kind)
	assert.Equal(t, []string{"Black", "Cream"}, s[2].Items)
	assert.Equal(t, SpecScalar, s[4].Kind)
	assert.Equal(t, "true", s[5].Value)
}

func TestSpecs_Lookup(t *testing.T) {
	var s Specs
	require.NoError(t, json.Unmarshal([]byte(sampleSpecs), &s))

	v, ok := s.Lookup("Os", "Operating System")
	require.True(t, ok)
	assert.Equal(t, "Android 14", v)

	v, ok = s.Lookup("Camera", "Rear", "Main")
	require.True(t, ok)
	assert.Equal(t, "50 MP", v)

	_, ok = s.Lookup("Camera", "Rear")
	assert.False(t, ok, "map is not a scalar")

	_, ok = s.Lookup("Missing")
	assert.False(t, ok)
}

func TestSpecs_NonObjectIsEmpty(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"product_id":"x","specs":"none"}`), &p))
	assert.Empty(t, p.Specs)

	require.NoError(t, json.Unmarshal([]byte(`{"product_id":"x","specs":null}`), &p))
	assert.Empty(t, p.Specs)
}

func TestSpecs_MarshalRoundTripKeepsOrder(t *testing.T) {
	var s Specs
	require.NoError(t, json.Unmarshal([]byte(`{"b":"1","a":["x"],"c":{"z":"2","y":"3"}}`), &s))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"1","a":["x"],"c":{"z":"2","y":"3"}}`, string(out))
}
