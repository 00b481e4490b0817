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

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает страницу товаров и полное число записей под теми же
// предикатами. Оба запроса скомпилированы из одного фильтра, поэтому total
// не может разойтись со страницей.
func (p *ProductRepo) List(ctx context.Context, filter *usecase.ListingFilter) ([]domain.Product, int64, error) {
	dataQuery, dataArgs, countQuery, countArgs, err := compileListing(kindProduct, filter)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := p.pool.Query(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.MerchantID, &model.Name, &model.Description,
			&model.PriceCents, &model.ImageKey, &model.Category, &model.Rating,
			&model.PrepTimeMin, &model.Available, &model.IsFeatured, &model.Tags,
			&model.Status, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, total, nil
}

// CountByCategory агрегирует активные товары активных магазинов по категориям.
func (p *ProductRepo) CountByCategory(ctx context.Context) ([]usecase.CategoryCount, error) {
	query := `
		SELECT pr.category, COUNT(*) AS product_count
		FROM products pr
		JOIN merchants mr ON mr.id = pr.merchant_id
		WHERE pr.status = $1 AND mr.status = $1
		GROUP BY pr.category
		ORDER BY product_count DESC, pr.category
	`

	rows, err := p.pool.Query(ctx, query, domain.StatusActive)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.CategoryCount, 0)
	for rows.Next() {
		var category usecase.CategoryCount
		if err := rows.Scan(&category.Category, &category.ProductCount); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, category)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
