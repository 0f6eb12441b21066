package mapper

import (
	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}

	items := make([]*entity.OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = &entity.OrderItem{
			Id:        it.Id,
			OrderId:   it.OrderId,
			ProductId: it.ProductId,
			Name:      it.Name,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}

	return &entity.Order{
		Id:             o.Id,
		SessionID:      o.SessionID,
		CustomerId:     o.CustomerId,
		BudgetId:       o.BudgetId,
		Status:         o.Status,
		DeliveryPref:   o.DeliveryPref,
		PaymentMethod:  o.PaymentMethod,
		DeliveryTarget: o.DeliveryTarget,
		Total:          o.Total,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}

	items := make([]*model.OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = &model.OrderItem{
			Id:        it.Id,
			OrderId:   it.OrderId,
			ProductId: it.ProductId,
			Name:      it.Name,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}

	return &model.Order{
		Id:             o.Id,
		SessionID:      o.SessionID,
		CustomerId:     o.CustomerId,
		BudgetId:       o.BudgetId,
		Status:         o.Status,
		DeliveryPref:   o.DeliveryPref,
		PaymentMethod:  o.PaymentMethod,
		DeliveryTarget: o.DeliveryTarget,
		Total:          o.Total,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}
