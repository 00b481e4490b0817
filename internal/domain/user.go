package domain

import "time"

// User описывает покупателя. PasswordHash никогда не покидает usecase-слой.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
