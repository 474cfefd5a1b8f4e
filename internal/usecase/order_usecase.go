package usecase

import (
	"context"
	"encoding/json"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderUseCase реализует оформление и чтение заказов.
type OrderUseCase struct {
	orderRepo  OrderRepository
	userRepo   UserRepository
	outboxRepo OutboxRepository
	dbPool     transaction.Transactional
	logger     logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		dbPool:     dbPool,
		logger:     logger,
	}
}

// PlaceOrder атомарно создаёт заказ и его позиции.
// Шапка заказа, позиции и outbox-событие пишутся в одной транзакции;
// цена каждой позиции снимается с товара на момент вставки.
// Позиция с несуществующим товаром пропускается без ошибки — заказ при этом
// может содержать меньше позиций, чем запрошено (поведение исходной системы,
// каждый пропуск логируется).
func (o *OrderUseCase) PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.PlaceOrder"

	// Заказ может оформить только существующий пользователь
	if _, err := o.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	order, err := o.orderRepo.CreateHeader(ctx, domain.NewOrder(req.UserID, domain.OrderStatusCompleted))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var totalCents int64
	itemCount := 0
	for _, line := range req.Items {
		// err присваивается внешней переменной, иначе deferred rollback её не увидит
		var item *domain.OrderItem
		item, err = o.orderRepo.AddItem(ctx, order.ID, line.ProductID, line.Quantity)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		if item == nil {
			o.logger.Warnf("order line skipped, product not found: order_id=%s product_id=%s", order.ID, line.ProductID)
			continue
		}

		itemCount++
		totalCents += item.PriceAtPurchaseCents * int64(item.Quantity)
	}

	if err = o.createOutboxEvent(ctx, order, itemCount, totalCents); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Чтение после записи: заказ возвращается из БД вместе с позициями
	placed, err := o.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return placed, nil
}

// ListOrders возвращает страницу всех заказов с позициями.
func (o *OrderUseCase) ListOrders(ctx context.Context, skip, limit int) ([]domain.Order, error) {
	const op = "OrderUseCase.ListOrders"

	orders, err := o.orderRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// ListUserOrders возвращает все заказы пользователя с позициями.
func (o *OrderUseCase) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	const op = "OrderUseCase.ListUserOrders"

	orders, err := o.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// createOutboxEvent пишет событие order.placed в outbox в рамках текущей транзакции.
func (o *OrderUseCase) createOutboxEvent(ctx context.Context, order *domain.Order, itemCount int, totalCents int64) error {
	payload, err := json.Marshal(OrderPlacedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		ItemCount:  itemCount,
		TotalCents: totalCents,
		CreatedAt:  order.CreatedAt,
	})
	if err != nil {
		return err
	}

	_, err = o.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), OrderPlaced, order.ID, payload))
	return err
}
