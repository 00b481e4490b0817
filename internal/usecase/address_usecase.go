package usecase

import (
	"context"
	"encoding/json"
	"strings"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AddressUseCase владеет инвариантом адресной книги: у пользователя
// с хотя бы одним адресом ровно один адрес по умолчанию. Все мутации
// выполняются в одной транзакции вместе с записью outbox-события,
// промежуточные состояния снаружи не наблюдаемы.
type AddressUseCase struct {
	addressRepo AddressRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewAddressUC(
	addressRepo AddressRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *AddressUseCase {
	return &AddressUseCase{
		addressRepo: addressRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// List возвращает адреса пользователя.
func (a *AddressUseCase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	const op = "AddressUseCase.List"

	addresses, err := a.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dtos := make([]AddressDTO, 0, len(addresses))
	for _, address := range addresses {
		dtos = append(dtos, toAddressDTO(&address))
	}

	return dtos, nil
}

// Add сохраняет новый адрес. Первый адрес пользователя становится адресом
// по умолчанию независимо от запроса; последующий адрес с is_default=true
// снимает флаг с прежнего в той же транзакции.
func (a *AddressUseCase) Add(ctx context.Context, userID int64, req *AddAddressReq) (*AddressDTO, error) {
	const op = "AddressUseCase.Add"

	var err error
	if err = validateAddress(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, a.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	existing, err := a.addressRepo.ListForUpdate(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	isDefault := req.IsDefault
	if len(existing) == 0 {
		// Пользователь не может остаться без адреса по умолчанию
		isDefault = true
	} else if isDefault {
		if err = a.addressRepo.UnsetDefaults(ctx, userID, 0); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	address := domain.NewAddress(userID, req.Label, req.Line1, req.Line2, req.City, req.District, req.Notes, isDefault)
	created, err := a.addressRepo.Insert(ctx, address)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = a.writeEvent(ctx, EventAddressAdded, userID, created.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	dto := toAddressDTO(created)
	return &dto, nil
}

// SetDefault атомарно переназначает адрес по умолчанию. Чужой или
// несуществующий адрес неразличимы для вызывающего: в обоих случаях not found.
func (a *AddressUseCase) SetDefault(ctx context.Context, userID, addressID int64) error {
	const op = "AddressUseCase.SetDefault"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, a.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = a.lockOwned(ctx, userID, addressID); err != nil {
		return e.Wrap(op, err)
	}

	if err = a.addressRepo.UnsetDefaults(ctx, userID, addressID); err != nil {
		return e.Wrap(op, err)
	}

	ok, err := a.addressRepo.SetDefault(ctx, userID, addressID)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !ok {
		err = e.ErrAddressNotFound
		return e.Wrap(op, err)
	}

	if err = a.checkInvariant(ctx, userID); err != nil {
		return e.Wrap(op, err)
	}

	if err = a.writeEvent(ctx, EventAddressDefault, userID, addressID); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Delete удаляет адрес пользователя. Если удалён адрес по умолчанию и другие
// адреса остались, по умолчанию назначается последний созданный из оставшихся.
func (a *AddressUseCase) Delete(ctx context.Context, userID, addressID int64) error {
	const op = "AddressUseCase.Delete"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, a.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	target, err := a.lockOwned(ctx, userID, addressID)
	if err != nil {
		return e.Wrap(op, err)
	}

	ok, err := a.addressRepo.Delete(ctx, userID, addressID)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !ok {
		err = e.ErrAddressNotFound
		return e.Wrap(op, err)
	}

	if target.IsDefault {
		if err = a.addressRepo.PromoteLatest(ctx, userID); err != nil {
			return e.Wrap(op, err)
		}
	}

	if err = a.writeEvent(ctx, EventAddressDeleted, userID, addressID); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// lockOwned блокирует адреса пользователя и возвращает целевой адрес,
// если он принадлежит ему.
func (a *AddressUseCase) lockOwned(ctx context.Context, userID, addressID int64) (*domain.Address, error) {
	addresses, err := a.addressRepo.ListForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range addresses {
		if addresses[i].ID == addressID {
			return &addresses[i], nil
		}
	}

	return nil, e.ErrAddressNotFound
}

// checkInvariant — защитная проверка перед коммитом: ровно один адрес
// по умолчанию. При корректных транзакциях не срабатывает.
func (a *AddressUseCase) checkInvariant(ctx context.Context, userID int64) error {
	defaults, err := a.addressRepo.CountDefaults(ctx, userID)
	if err != nil {
		return err
	}

	if defaults != 1 {
		a.logger.Warnf("address invariant violated for user %d: %d defaults", userID, defaults)
		return e.ErrDefaultConflict
	}

	return nil
}

func (a *AddressUseCase) writeEvent(ctx context.Context, eventType OutboxEventType, userID, addressID int64) error {
	payload, err := json.Marshal(map[string]any{
		"user_id":    userID,
		"address_id": addressID,
	})
	if err != nil {
		return err
	}

	_, err = a.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), eventType, userID, payload))
	return err
}

func validateAddress(req *AddAddressReq) error {
	if strings.TrimSpace(req.Line1) == "" || strings.TrimSpace(req.City) == "" {
		return e.ErrInvalidAddressFields
	}

	return nil
}

func toAddressDTO(address *domain.Address) AddressDTO {
	return AddressDTO{
		ID:        address.ID,
		Label:     address.Label,
		Line1:     address.Line1,
		Line2:     address.Line2,
		City:      address.City,
		District:  address.District,
		Notes:     address.Notes,
		IsDefault: address.IsDefault,
		CreatedAt: address.CreatedAt,
	}
}
