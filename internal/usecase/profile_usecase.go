package usecase

import (
	"context"
	"encoding/json"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ProfileUseCase — чтение и обновление профиля, смена пароля
// и read-only список заказов пользователя.
type ProfileUseCase struct {
	userRepo   UserRepository
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	dbPool     transaction.Transactional
	logger     logger.Logger
}

func NewProfileUC(
	userRepo UserRepository,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		dbPool:     dbPool,
		logger:     logger,
	}
}

func (p *ProfileUseCase) GetProfile(ctx context.Context, userID int64) (*ProfileDTO, error) {
	const op = "ProfileUseCase.GetProfile"

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return toProfileDTO(user), nil
}

// UpdateProfile обновляет только поля из белого списка. Запрос без единого
// поля отклоняется как ошибка валидации.
func (p *ProfileUseCase) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileReq) (*ProfileDTO, error) {
	const op = "ProfileUseCase.UpdateProfile"

	var err error
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		err = e.ErrInvalidProfileFields
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	updated, err := p.userRepo.Update(ctx, user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	payload, err := json.Marshal(map[string]any{"user_id": userID})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err = p.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), EventProfileUpdated, userID, payload)); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return toProfileDTO(updated), nil
}

// ChangePassword меняет пароль после проверки текущего.
func (p *ProfileUseCase) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	const op = "ProfileUseCase.ChangePassword"

	if len(next) < minPasswordLength {
		return e.Wrap(op, e.ErrPasswordTooShort)
	}

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return e.Wrap(op, e.ErrWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := p.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// ListOrders возвращает заказы пользователя, новые первыми.
func (p *ProfileUseCase) ListOrders(ctx context.Context, userID int64) ([]OrderDTO, error) {
	const op = "ProfileUseCase.ListOrders"

	orders, err := p.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, toOrderDTO(&order))
	}

	return dtos, nil
}

func toProfileDTO(user *domain.User) *ProfileDTO {
	return &ProfileDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}
}

func toOrderDTO(order *domain.Order) OrderDTO {
	items := order.Items
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}

	return OrderDTO{
		ID:         order.ID,
		MerchantID: order.MerchantID,
		Status:     order.Status,
		Total:      centsToFloat(order.TotalCents),
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}
