package domain

import "time"

// Address — сохранённый адрес доставки пользователя.
// Инвариант: у пользователя с хотя бы одним адресом ровно один IsDefault.
type Address struct {
	ID        int64
	UserID    int64
	Label     string // "Дом", "Работа" и т.п.
	Line1     string
	Line2     string
	City      string
	District  string
	Notes     string
	IsDefault bool
	CreatedAt time.Time
}

func NewAddress(userID int64, label, line1, line2, city, district, notes string, isDefault bool) *Address {
	return &Address{
		UserID:    userID,
		Label:     label,
		Line1:     line1,
		Line2:     line2,
		City:      city,
		District:  district,
		Notes:     notes,
		IsDefault: isDefault,
	}
}
