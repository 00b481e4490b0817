package pgdb

import (
	"fmt"
	"strings"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
)

// entityKind определяет схему, по которой компилируется запрос выдачи.
type entityKind string

const (
	kindProduct  entityKind = "product"
	kindMerchant entityKind = "merchant"
)

// entitySchema описывает, из чего собирается выдача сущности: базовые
// предикаты активности, колонки для фильтров и фиксированный порядок.
type entitySchema struct {
	selectList  string
	from        string
	statusCols  []string
	categoryCol string
	searchCols  []string
	orderBy     string
}

var schemas = map[entityKind]entitySchema{
	kindProduct: {
		selectList: `p.id, p.merchant_id, p.name, p.description, p.price_cents, p.image_key,
			p.category, p.rating, p.prep_time_min, p.available, p.is_featured, p.tags,
			p.status, p.created_at, p.updated_at`,
		from:        "products p JOIN merchants m ON m.id = p.merchant_id",
		statusCols:  []string{"p.status", "m.status"},
		categoryCol: "p.category",
		searchCols:  []string{"p.name", "p.description"},
		// Стабильный порядок с добивкой по id — пагинация детерминирована
		orderBy: "p.is_featured DESC, p.rating DESC, p.created_at DESC, p.id DESC",
	},
	kindMerchant: {
		selectList: `m.id, m.name, m.description, m.logo_key, m.category, m.rating,
			m.delivery_time, m.min_order_cents, m.delivery_fee_cents, m.address, m.city,
			m.phone, m.email, m.is_dropx, m.open_hours, m.status, m.created_at, m.updated_at`,
		from:        "merchants m",
		statusCols:  []string{"m.status"},
		categoryCol: "m.category",
		searchCols:  []string{"m.name", "m.description"},
		orderBy:     "m.rating DESC, m.is_dropx DESC, m.created_at DESC, m.id DESC",
	},
}

// compileListing детерминированно собирает из фильтра пару запросов: данные
// страницы и полное количество. Оба построены из одного набора предикатов,
// поэтому total всегда согласован с тем, что вернула бы полная пагинация.
// Все значения передаются связанными параметрами.
func compileListing(kind entityKind, filter *usecase.ListingFilter) (dataQuery string, dataArgs []any, countQuery string, countArgs []any, err error) {
	schema, ok := schemas[kind]
	if !ok {
		return "", nil, "", nil, e.Wrap(string(kind), e.ErrUnknownEntityKind)
	}

	var (
		conds []string
		args  []any
	)

	for _, col := range schema.statusCols {
		args = append(args, domain.StatusActive)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if filter.HasCategory() {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("%s = $%d", schema.categoryCol, len(args)))
	}

	if filter.HasSearch() {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		ors := make([]string, 0, len(schema.searchCols))
		for _, col := range schema.searchCols {
			ors = append(ors, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, len(args)))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	where := strings.Join(conds, " AND ")

	countQuery = "SELECT COUNT(*) FROM " + schema.from + " WHERE " + where
	countArgs = args

	dataArgs = make([]any, 0, len(args)+2)
	dataArgs = append(dataArgs, args...)
	dataArgs = append(dataArgs, filter.Limit, filter.Offset)
	dataQuery = fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		schema.selectList, schema.from, where, schema.orderBy, len(args)+1, len(args)+2,
	)

	return dataQuery, dataArgs, countQuery, countArgs, nil
}

// escapeLike экранирует спецсимволы LIKE, чтобы пользовательский ввод
// не менял семантику сопоставления.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
