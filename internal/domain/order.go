package domain

import (
	"encoding/json"
	"time"
)

// Order — заказ пользователя. В этом сервисе заказы только читаются,
// состав заказа передаётся дальше как непрозрачный JSON.
type Order struct {
	ID         int64
	UserID     int64
	MerchantID int64
	Status     string
	TotalCents int64
	Items      json.RawMessage
	CreatedAt  time.Time
}
