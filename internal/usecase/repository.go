package usecase

import (
	"context"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
)

type ProductRepository interface {
	// List возвращает страницу товаров и полное число записей
	// под теми же предикатами фильтра.
	List(ctx context.Context, filter *ListingFilter) ([]domain.Product, int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
}

type MerchantRepository interface {
	List(ctx context.Context, filter *ListingFilter) ([]domain.Merchant, int64, error)
}

// AddressRepository — примитивные операции над адресами. Методы, помеченные
// как транзакционные, обязаны вызываться внутри открытой транзакции
// (tx извлекается из контекста).
type AddressRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Address, error)
	// ListForUpdate блокирует адреса пользователя до конца транзакции.
	ListForUpdate(ctx context.Context, userID int64) ([]domain.Address, error)
	Insert(ctx context.Context, address *domain.Address) (*domain.Address, error)
	// UnsetDefaults снимает флаг по умолчанию со всех адресов пользователя, кроме exceptID.
	UnsetDefaults(ctx context.Context, userID, exceptID int64) error
	// SetDefault проставляет флаг на адресе пользователя; false — адрес не принадлежит ему.
	SetDefault(ctx context.Context, userID, addressID int64) (bool, error)
	Delete(ctx context.Context, userID, addressID int64) (bool, error)
	// PromoteLatest назначает по умолчанию последний созданный адрес пользователя.
	PromoteLatest(ctx context.Context, userID int64) error
	CountDefaults(ctx context.Context, userID int64) (int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Update перезаписывает профильные поля; транзакционный.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type OrderRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type OutboxRepository interface {
	// Create записывает событие в рамках текущей транзакции.
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
