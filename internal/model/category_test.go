package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  Category
		known bool
	}{
		{"Technology", CategoryTechnology, true},
		{" real estate ", CategoryRealEstate, true},
		{"e-commerce", CategoryEcommerce, true},
		{"ECOMMERCE", CategoryEcommerce, true},
		{"healthcare", CategoryHealthcare, true},
		{"space mining", CategoryOther, false},
		{"", CategoryOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "real estate", CategoryRealEstate.Label())
	assert.Equal(t, "technology", CategoryTechnology.Label())
	assert.Equal(t, "general", Category("").Label())
}

func TestBusinessJSON_OmitsUnreported(t *testing.T) {
	t.Parallel()

	b := Business{
		ID:          "b1",
		Title:       "Corner Bakery",
		Category:    CategoryRestaurant,
		Revenue:     Money(180000.25),
		Established: Date(2012, time.March, 1),
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "180000.25", raw["revenue"])
	assert.NotContains(t, raw, "profit")
	assert.NotContains(t, raw, "employees")

	var back Business
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Revenue)
	assert.True(t, back.Revenue.Equal(*b.Revenue))
	assert.Nil(t, back.Profit)
	assert.True(t, back.Established.Equal(*b.Established))
}
