package usecase

import (
	"encoding/json"
	"time"
)

// LISTING USECASE

// ProductDTO — проекция товара для внешнего использования.
// Денежные значения отдаются числами с плавающей точкой.
type ProductDTO struct {
	ID          int64    `json:"id"`
	MerchantID  int64    `json:"merchant_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	Rating      float64  `json:"rating"`
	PrepTime    int      `json:"prep_time"`
	Available   bool     `json:"available"`
	IsFeatured  bool     `json:"is_featured"`
	Tags        []string `json:"tags"`
}

// MerchantDTO — проекция магазина для внешнего использования.
type MerchantDTO struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	LogoURL      string            `json:"logo_url"`
	Category     string            `json:"category"`
	Rating       float64           `json:"rating"`
	DeliveryTime string            `json:"delivery_time"`
	MinOrder     float64           `json:"min_order"`
	DeliveryFee  float64           `json:"delivery_fee"`
	Address      string            `json:"address"`
	City         string            `json:"city"`
	IsDropx      bool              `json:"is_dropx"`
	OpenHours    map[string]string `json:"open_hours"`
}

// CategoryCount — агрегат «категория и число активных товаров в ней».
type CategoryCount struct {
	Category     string `json:"category"`
	ProductCount int64  `json:"product_count"`
}

// ProductListRes — страница товаров. Count — размер страницы,
// Total — полное число записей под теми же предикатами.
type ProductListRes struct {
	Products []ProductDTO
	Count    int
	Total    int64
}

// MerchantListRes — страница магазинов.
type MerchantListRes struct {
	Merchants []MerchantDTO
	Count     int
	Total     int64
}

// ADDRESS USECASE

// AddAddressReq — запрос на добавление адреса.
type AddAddressReq struct {
	Label     string
	Line1     string
	Line2     string
	City      string
	District  string
	Notes     string
	IsDefault bool
}

// AddressDTO — адрес в ответах API.
type AddressDTO struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city"`
	District  string    `json:"district,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// PROFILE USECASE

// ProfileDTO — профиль пользователя без учётных данных.
type ProfileDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateProfileReq — частичное обновление профиля, только поля из белого списка.
type UpdateProfileReq struct {
	Name  *string
	Email *string
	Phone *string
}

// OrderDTO — заказ пользователя; состав заказа передаётся как есть.
type OrderDTO struct {
	ID         int64           `json:"id"`
	MerchantID int64           `json:"merchant_id"`
	Status     string          `json:"status"`
	Total      float64         `json:"total"`
	Items      json.RawMessage `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventAddressAdded   OutboxEventType = "address_added"
	EventAddressDefault OutboxEventType = "address_default_changed"
	EventAddressDeleted OutboxEventType = "address_deleted"
	EventProfileUpdated OutboxEventType = "profile_updated"
)

// OutboxEvent — событие об изменении данных пользователя, записывается
// в той же транзакции, что и само изменение.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	UserID      int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// WriteRawMessageReq — запрос на публикацию готового payload в брокер.
type WriteRawMessageReq struct {
	UserID  int64
	Payload []byte
}

// MAPPERS

func NewOutboxEvent(eventID string, eventType OutboxEventType, userID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		UserID:    userID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewWriteRawMessageReq(userID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		UserID:  userID,
		Payload: payload,
	}
}
