package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus — статус заказа.
// Переходов между статусами нет: заказ создаётся в конечном статусе
// и ни одна операция его не меняет.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order описывает заказ пользователя. Заказ владеет своими позициями:
// создаются и удаляются они только вместе с заказом, в одной транзакции.
type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    OrderStatus
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem описывает одну позицию заказа.
// PriceAtPurchaseCents — снимок цены товара на момент покупки;
// последующие изменения каталога на него не влияют.
type OrderItem struct {
	ID                   uuid.UUID
	OrderID              uuid.UUID
	ProductID            uuid.UUID
	Quantity             int32
	PriceAtPurchaseCents int64
}

func NewOrder(userID uuid.UUID, status OrderStatus) *Order {
	return &Order{
		UserID: userID,
		Status: status,
	}
}

func NewOrderItem(orderID uuid.UUID, productID uuid.UUID, quantity int32, priceCents int64) *OrderItem {
	return &OrderItem{
		OrderID:              orderID,
		ProductID:            productID,
		Quantity:             quantity,
		PriceAtPurchaseCents: priceCents,
	}
}
