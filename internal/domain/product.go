package domain

import "time"

// Статусы товаров и магазинов. В выдаче участвуют только active-записи.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product описывает товар магазина-партнёра.
type Product struct {
	ID          int64
	MerchantID  int64
	Name        string
	Description string
	PriceCents  int64 // Цена хранится в минорных единицах валюты
	ImageKey    string
	Category    string
	Rating      float64 // 0.0–5.0
	PrepTimeMin int     // Время приготовления в минутах
	Available   bool
	IsFeatured  bool
	Tags        []string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
