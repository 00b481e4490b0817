package usecase

import (
	"strconv"
	"strings"
)

// Пагинация выдачи: границы страницы фиксированы, значения за пределами
// приводятся к границам, а не отклоняются.
const (
	DefaultProductLimit  = 20
	DefaultMerchantLimit = 10
	MaxListingLimit      = 100
	MinListingLimit      = 1
)

// RawListingParams — сырые строковые параметры запроса выдачи,
// как они пришли из query string.
type RawListingParams struct {
	Category string
	Search   string
	Limit    string
	Offset   string
}

// ListingFilter — нормализованный фильтр выдачи. Создаётся один раз на
// границе запроса, ниже по стеку сырые параметры не используются.
type ListingFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// NewProductFilter нормализует параметры выдачи товаров.
func NewProductFilter(raw RawListingParams) *ListingFilter {
	return newListingFilter(raw, DefaultProductLimit)
}

// NewMerchantFilter нормализует параметры выдачи магазинов.
func NewMerchantFilter(raw RawListingParams) *ListingFilter {
	return newListingFilter(raw, DefaultMerchantLimit)
}

// newListingFilter приводит сырые параметры к типизированному фильтру.
// Политика limit/offset: нечисловые и пустые значения заменяются значением
// по умолчанию, числовые ограничиваются допустимым диапазоном. Ошибки
// валидации пользователю не возвращаются.
func newListingFilter(raw RawListingParams, defaultLimit int) *ListingFilter {
	limit := defaultLimit
	if v, err := strconv.Atoi(strings.TrimSpace(raw.Limit)); err == nil {
		limit = clamp(v, MinListingLimit, MaxListingLimit)
	}

	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(raw.Offset)); err == nil && v > 0 {
		offset = v
	}

	return &ListingFilter{
		Category: strings.TrimSpace(raw.Category),
		Search:   strings.TrimSpace(raw.Search),
		Limit:    limit,
		Offset:   offset,
	}
}

// HasCategory сообщает, задан ли фильтр по категории.
func (f *ListingFilter) HasCategory() bool {
	return f.Category != ""
}

// HasSearch сообщает, задан ли поисковый фильтр.
func (f *ListingFilter) HasSearch() bool {
	return f.Search != ""
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
