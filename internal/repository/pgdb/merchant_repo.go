package pgdb

import (
	"context"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// MerchantRepo реализует репозиторий магазинов поверх PostgreSQL.
type MerchantRepo struct {
	pool *pgxpool.Pool
	conv converter.MerchantConverter
}

func NewMerchantRepo(pool *pgxpool.Pool, conv converter.MerchantConverter) *MerchantRepo {
	return &MerchantRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает страницу активных магазинов и полное число записей
// под теми же предикатами фильтра.
func (m *MerchantRepo) List(ctx context.Context, filter *usecase.ListingFilter) ([]domain.Merchant, int64, error) {
	dataQuery, dataArgs, countQuery, countArgs, err := compileListing(kindMerchant, filter)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var total int64
	if err := m.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := m.pool.Query(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Merchant, 0, filter.Limit)
	for rows.Next() {
		var model converter.MerchantModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.LogoKey,
			&model.Category, &model.Rating, &model.DeliveryTime,
			&model.MinOrderCents, &model.DeliveryFeeCents, &model.Address,
			&model.City, &model.Phone, &model.Email, &model.IsDropx,
			&model.OpenHours, &model.Status, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *m.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, total, nil
}
