package usecase

import (
	"context"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ListingUseCase реализует выдачу товаров, магазинов и категорий.
type ListingUseCase struct {
	productRepo  ProductRepository
	merchantRepo MerchantRepository
	imagesInfra  ImagesInfra
	logger       logger.Logger
}

func NewListingUC(
	productRepo ProductRepository,
	merchantRepo MerchantRepository,
	imagesInfra ImagesInfra,
	logger logger.Logger,
) *ListingUseCase {
	return &ListingUseCase{
		productRepo:  productRepo,
		merchantRepo: merchantRepo,
		imagesInfra:  imagesInfra,
		logger:       logger,
	}
}

// ListProducts возвращает страницу активных товаров активных магазинов.
// Total считается отдельным запросом с теми же предикатами и не зависит
// от limit/offset.
func (l *ListingUseCase) ListProducts(ctx context.Context, filter *ListingFilter) (*ProductListRes, error) {
	const op = "ListingUseCase.ListProducts"

	products, total, err := l.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, l.toProductDTO(ctx, &product))
	}

	return &ProductListRes{
		Products: dtos,
		Count:    len(dtos),
		Total:    total,
	}, nil
}

// ListMerchants возвращает страницу активных магазинов.
func (l *ListingUseCase) ListMerchants(ctx context.Context, filter *ListingFilter) (*MerchantListRes, error) {
	const op = "ListingUseCase.ListMerchants"

	merchants, total, err := l.merchantRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dtos := make([]MerchantDTO, 0, len(merchants))
	for _, merchant := range merchants {
		dtos = append(dtos, l.toMerchantDTO(ctx, &merchant))
	}

	return &MerchantListRes{
		Merchants: dtos,
		Count:     len(dtos),
		Total:     total,
	}, nil
}

// ListCategories возвращает категории активных товаров с их количеством,
// по убыванию количества. Пагинации нет.
func (l *ListingUseCase) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	const op = "ListingUseCase.ListCategories"

	categories, err := l.productRepo.CountByCategory(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

func (l *ListingUseCase) toProductDTO(ctx context.Context, product *domain.Product) ProductDTO {
	tags := product.Tags
	if tags == nil {
		tags = []string{}
	}

	return ProductDTO{
		ID:          product.ID,
		MerchantID:  product.MerchantID,
		Name:        product.Name,
		Description: product.Description,
		Price:       centsToFloat(product.PriceCents),
		ImageURL:    l.presign(ctx, product.ImageKey),
		Category:    product.Category,
		Rating:      product.Rating,
		PrepTime:    product.PrepTimeMin,
		Available:   product.Available,
		IsFeatured:  product.IsFeatured,
		Tags:        tags,
	}
}

func (l *ListingUseCase) toMerchantDTO(ctx context.Context, merchant *domain.Merchant) MerchantDTO {
	hours := merchant.OpenHours
	if hours == nil {
		hours = map[string]string{}
	}

	return MerchantDTO{
		ID:           merchant.ID,
		Name:         merchant.Name,
		Description:  merchant.Description,
		LogoURL:      l.presign(ctx, merchant.LogoKey),
		Category:     merchant.Category,
		Rating:       merchant.Rating,
		DeliveryTime: merchant.DeliveryTime,
		MinOrder:     centsToFloat(merchant.MinOrderCents),
		DeliveryFee:  centsToFloat(merchant.DeliveryFeeCents),
		Address:      merchant.Address,
		City:         merchant.City,
		IsDropx:      merchant.IsDropx,
		OpenHours:    hours,
	}
}

// presign выдаёт временную ссылку на изображение. Ошибка presign не ломает
// выдачу: пишется предупреждение, ссылка остаётся пустой.
func (l *ListingUseCase) presign(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}

	url, err := l.imagesInfra.PresignURL(ctx, key)
	if err != nil {
		l.logger.Warnf("failed to presign image %s: %v", key, err)
		return ""
	}

	return url
}

// centsToFloat переводит минорные единицы в число с плавающей точкой для JSON.
func centsToFloat(cents int64) float64 {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).InexactFloat64()
}
