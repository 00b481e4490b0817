package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTags_Lenient(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want []string
	}{
		{"valid", []byte(`["острое","веган"]`), []string{"острое", "веган"}},
		{"nil raw", nil, []string{}},
		{"empty raw", []byte(""), []string{}},
		{"json null", []byte("null"), []string{}},
		{"broken json", []byte("{{not json"), []string{}},
		{"wrong shape object", []byte(`{"a":"b"}`), []string{}},
		{"wrong element type", []byte(`[1,2]`), []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decodeTags(tc.raw))
		})
	}
}

func TestDecodeOpenHours_Lenient(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want map[string]string
	}{
		{"valid", []byte(`{"mon":"09:00-21:00"}`), map[string]string{"mon": "09:00-21:00"}},
		{"nil raw", nil, map[string]string{}},
		{"json null", []byte("null"), map[string]string{}},
		{"broken json", []byte("{{not json"), map[string]string{}},
		{"wrong shape array", []byte(`[1,2]`), map[string]string{}},
		{"wrong value type", []byte(`{"mon":9}`), map[string]string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decodeOpenHours(tc.raw))
		})
	}
}

// Повреждённые блобы не ломают проекцию модели целиком.
func TestToEntity_MalformedBlobs(t *testing.T) {
	product := NewProductConverter().ToEntity(&ProductModel{
		ID:   1,
		Name: "Пепперони",
		Tags: []byte("{{not json"),
	})
	assert.Equal(t, []string{}, product.Tags)
	assert.Equal(t, "Пепперони", product.Name)

	merchant := NewMerchantConverter().ToEntity(&MerchantModel{
		ID:        2,
		Name:      "Суши Мастер",
		OpenHours: []byte(`[1,2]`),
	})
	assert.Equal(t, map[string]string{}, merchant.OpenHours)
	assert.Equal(t, "Суши Мастер", merchant.Name)
}
