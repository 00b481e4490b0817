package converter

import (
	"encoding/json"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func NewProductConverter() ProductConverter {
	return ProductConverter{}
}

func (ProductConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		MerchantID:  model.MerchantID,
		Name:        model.Name,
		Description: model.Description,
		PriceCents:  model.PriceCents,
		ImageKey:    model.ImageKey,
		Category:    model.Category,
		Rating:      model.Rating,
		PrepTimeMin: model.PrepTimeMin,
		Available:   model.Available,
		IsFeatured:  model.IsFeatured,
		Tags:        decodeTags(model.Tags),
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// MerchantConverter преобразует сущности Merchant между domain и моделью PostgreSQL.
type MerchantConverter struct{}

func NewMerchantConverter() MerchantConverter {
	return MerchantConverter{}
}

func (MerchantConverter) ToEntity(model *MerchantModel) *domain.Merchant {
	return &domain.Merchant{
		ID:               model.ID,
		Name:             model.Name,
		Description:      model.Description,
		LogoKey:          model.LogoKey,
		Category:         model.Category,
		Rating:           model.Rating,
		DeliveryTime:     model.DeliveryTime,
		MinOrderCents:    model.MinOrderCents,
		DeliveryFeeCents: model.DeliveryFeeCents,
		Address:          model.Address,
		City:             model.City,
		Phone:            model.Phone,
		Email:            model.Email,
		IsDropx:          model.IsDropx,
		OpenHours:        decodeOpenHours(model.OpenHours),
		Status:           model.Status,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// AddressConverter преобразует сущности Address между domain и моделью PostgreSQL.
type AddressConverter struct{}

func NewAddressConverter() AddressConverter {
	return AddressConverter{}
}

func (AddressConverter) ToEntity(model *AddressModel) *domain.Address {
	return &domain.Address{
		ID:        model.ID,
		UserID:    model.UserID,
		Label:     model.Label,
		Line1:     model.Line1,
		Line2:     model.Line2,
		City:      model.City,
		District:  model.District,
		Notes:     model.Notes,
		IsDefault: model.IsDefault,
		CreatedAt: model.CreatedAt,
	}
}

func (AddressConverter) ToModel(entity *domain.Address) *AddressModel {
	return &AddressModel{
		ID:        entity.ID,
		UserID:    entity.UserID,
		Label:     entity.Label,
		Line1:     entity.Line1,
		Line2:     entity.Line2,
		City:      entity.City,
		District:  entity.District,
		Notes:     entity.Notes,
		IsDefault: entity.IsDefault,
		CreatedAt: entity.CreatedAt,
	}
}

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
type UserConverter struct{}

func NewUserConverter() UserConverter {
	return UserConverter{}
}

func (UserConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Phone:        model.Phone,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// OrderConverter преобразует сущности Order между domain и моделью PostgreSQL.
type OrderConverter struct{}

func NewOrderConverter() OrderConverter {
	return OrderConverter{}
}

func (OrderConverter) ToEntity(model *OrderModel) *domain.Order {
	return &domain.Order{
		ID:         model.ID,
		UserID:     model.UserID,
		MerchantID: model.MerchantID,
		Status:     model.Status,
		TotalCents: model.TotalCents,
		Items:      model.Items,
		CreatedAt:  model.CreatedAt,
	}
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter {
	return OutboxEventConverter{}
}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		UserID:      entity.UserID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		UserID:      model.UserID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}
	return result
}

// decodeTags лениво декодирует JSONB-массив тегов: повреждённое значение
// превращается в пустой список, а не в ошибку выдачи.
func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return []string{}
	}

	return tags
}

// decodeOpenHours лениво декодирует JSONB-объект часов работы.
func decodeOpenHours(raw []byte) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}

	var hours map[string]string
	if err := json.Unmarshal(raw, &hours); err != nil || hours == nil {
		return map[string]string{}
	}

	return hours
}
