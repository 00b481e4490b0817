package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProductFilter_LimitPolicy(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLimit int
	}{
		{name: "empty uses default", raw: "", wantLimit: DefaultProductLimit},
		{name: "non-numeric uses default", raw: "abc", wantLimit: DefaultProductLimit},
		{name: "float uses default", raw: "12.5", wantLimit: DefaultProductLimit},
		{name: "valid passes through", raw: "42", wantLimit: 42},
		{name: "zero clamps to min", raw: "0", wantLimit: MinListingLimit},
		{name: "negative clamps to min", raw: "-7", wantLimit: MinListingLimit},
		{name: "huge clamps to max", raw: "100500", wantLimit: MaxListingLimit},
		{name: "max boundary", raw: "100", wantLimit: MaxListingLimit},
		{name: "whitespace trimmed", raw: "  15  ", wantLimit: 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewProductFilter(RawListingParams{Limit: tc.raw})
			assert.Equal(t, tc.wantLimit, f.Limit)
		})
	}
}

func TestNewMerchantFilter_DefaultLimit(t *testing.T) {
	f := NewMerchantFilter(RawListingParams{})
	assert.Equal(t, DefaultMerchantLimit, f.Limit)
}

func TestNewListingFilter_OffsetPolicy(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantOffset int
	}{
		{name: "empty is zero", raw: "", wantOffset: 0},
		{name: "non-numeric is zero", raw: "abc", wantOffset: 0},
		{name: "negative is zero", raw: "-5", wantOffset: 0},
		{name: "valid passes through", raw: "40", wantOffset: 40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewProductFilter(RawListingParams{Offset: tc.raw})
			assert.Equal(t, tc.wantOffset, f.Offset)
		})
	}
}

func TestListingFilter_Predicates(t *testing.T) {
	f := NewProductFilter(RawListingParams{Category: "  пицца ", Search: ""})
	assert.True(t, f.HasCategory())
	assert.Equal(t, "пицца", f.Category)
	assert.False(t, f.HasSearch())

	f = NewProductFilter(RawListingParams{Search: "суши"})
	assert.True(t, f.HasSearch())
	assert.False(t, f.HasCategory())
}
