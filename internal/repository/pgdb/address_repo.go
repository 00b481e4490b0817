package pgdb

import (
	"context"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const addressColumns = "id, user_id, label, line1, line2, city, district, notes, is_default, created_at"

// AddressRepo реализует репозиторий адресов поверх PostgreSQL.
// Мутации вызываются только внутри транзакции, открытой usecase-слоем.
type AddressRepo struct {
	pool *pgxpool.Pool
	conv converter.AddressConverter
}

func NewAddressRepo(pool *pgxpool.Pool, conv converter.AddressConverter) *AddressRepo {
	return &AddressRepo{
		pool: pool,
		conv: conv,
	}
}

// ListByUser возвращает адреса пользователя, новые первыми.
func (a *AddressRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := queryEngine(ctx, a.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return a.scanAddresses(rows)
}

// ListForUpdate блокирует все адреса пользователя до конца транзакции,
// сериализуя конкурентные мутации адресной книги одного пользователя.
func (a *AddressRepo) ListForUpdate(ctx context.Context, userID int64) ([]domain.Address, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return a.scanAddresses(rows)
}

func (a *AddressRepo) Insert(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := a.conv.ToModel(address)
	query := `
		INSERT INTO addresses (user_id, label, line1, line2, city, district, notes, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if err := tx.QueryRow(ctx, query,
		model.UserID, model.Label, model.Line1, model.Line2,
		model.City, model.District, model.Notes, model.IsDefault,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		// Гонка двух первых адресов одного пользователя: оба увидели пустую
		// книгу, оба выставили is_default, проигравший упёрся в частичный
		// уникальный индекс uq_addresses_user_default.
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDefaultConflict)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(model), nil
}

// UnsetDefaults снимает флаг по умолчанию со всех адресов пользователя,
// кроме exceptID (0 — без исключений).
func (a *AddressRepo) UnsetDefaults(ctx context.Context, userID, exceptID int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE addresses
		SET is_default = FALSE
		WHERE user_id = $1 AND is_default AND id <> $2
	`

	if _, err := tx.Exec(ctx, query, userID, exceptID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// SetDefault проставляет флаг на адресе пользователя.
// false — адрес не существует или принадлежит другому пользователю.
func (a *AddressRepo) SetDefault(ctx context.Context, userID, addressID int64) (bool, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE addresses
		SET is_default = TRUE
		WHERE id = $1 AND user_id = $2
	`

	result, err := tx.Exec(ctx, query, addressID, userID)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (a *AddressRepo) Delete(ctx context.Context, userID, addressID int64) (bool, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `DELETE FROM addresses WHERE id = $1 AND user_id = $2`

	result, err := tx.Exec(ctx, query, addressID, userID)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected() > 0, nil
}

// PromoteLatest назначает по умолчанию последний созданный адрес пользователя.
// Без адресов — no-op.
func (a *AddressRepo) PromoteLatest(ctx context.Context, userID int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE addresses
		SET is_default = TRUE
		WHERE id = (
			SELECT id FROM addresses
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
	`

	if _, err := tx.Exec(ctx, query, userID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (a *AddressRepo) CountDefaults(ctx context.Context, userID int64) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var count int64
	query := `SELECT COUNT(*) FROM addresses WHERE user_id = $1 AND is_default`

	if err := tx.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

func (a *AddressRepo) scanAddresses(rows pgx.Rows) ([]domain.Address, error) {
	result := make([]domain.Address, 0)
	for rows.Next() {
		var model converter.AddressModel
		if err := rows.Scan(
			&model.ID, &model.UserID, &model.Label, &model.Line1, &model.Line2,
			&model.City, &model.District, &model.Notes, &model.IsDefault, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *a.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
