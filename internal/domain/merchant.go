package domain

import "time"

// Merchant описывает магазина-партнёра маркетплейса.
type Merchant struct {
	ID               int64
	Name             string
	Description      string
	LogoKey          string
	Category         string
	Rating           float64
	DeliveryTime     string // Ожидание доставки в человекочитаемом виде, например "30-45"
	MinOrderCents    int64
	DeliveryFeeCents int64
	Address          string
	City             string
	Phone            string
	Email            string
	IsDropx          bool // Приоритетный партнёр, поднимается в выдаче
	OpenHours        map[string]string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
