package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Tags хранится как JSONB-массив строк.
type ProductModel struct {
	ID          int64      `db:"id"`
	MerchantID  int64      `db:"merchant_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	PriceCents  int64      `db:"price_cents"`
	ImageKey    string     `db:"image_key"`
	Category    string     `db:"category"`
	Rating      float64    `db:"rating"`
	PrepTimeMin int        `db:"prep_time_min"`
	Available   bool       `db:"available"`
	IsFeatured  bool       `db:"is_featured"`
	Tags        []byte     `db:"tags"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// MerchantModel представляет запись таблицы merchants в PostgreSQL.
// OpenHours хранится как JSONB-объект "день недели → часы работы".
type MerchantModel struct {
	ID               int64      `db:"id"`
	Name             string     `db:"name"`
	Description      string     `db:"description"`
	LogoKey          string     `db:"logo_key"`
	Category         string     `db:"category"`
	Rating           float64    `db:"rating"`
	DeliveryTime     string     `db:"delivery_time"`
	MinOrderCents    int64      `db:"min_order_cents"`
	DeliveryFeeCents int64      `db:"delivery_fee_cents"`
	Address          string     `db:"address"`
	City             string     `db:"city"`
	Phone            string     `db:"phone"`
	Email            string     `db:"email"`
	IsDropx          bool       `db:"is_dropx"`
	OpenHours        []byte     `db:"open_hours"`
	Status           string     `db:"status"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

// AddressModel представляет запись таблицы addresses в PostgreSQL.
type AddressModel struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Label     string    `db:"label"`
	Line1     string    `db:"line1"`
	Line2     string    `db:"line2"`
	City      string    `db:"city"`
	District  string    `db:"district"`
	Notes     string    `db:"notes"`
	IsDefault bool      `db:"is_default"`
	CreatedAt time.Time `db:"created_at"`
}

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Phone        string     `db:"phone"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	MerchantID int64     `db:"merchant_id"`
	Status     string    `db:"status"`
	TotalCents int64     `db:"total_cents"`
	Items      []byte    `db:"items"`
	CreatedAt  time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	UserID      int64      `db:"user_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
