package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
// Заказ владеет своими позициями: order_items объявлен с ON DELETE CASCADE,
// удаление шапки заказа удаляет позиции в той же операции.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// CreateHeader вставляет шапку заказа в транзакции из контекста.
// RETURNING отдаёт сгенерированные id и created_at для связывания позиций.
func (o *OrderRepo) CreateHeader(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO orders (id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, status, created_at;
	`

	var model converter.OrderModel
	err = tx.QueryRow(ctx, query, uuid.New(), order.UserID, order.Status).
		Scan(&model.ID, &model.UserID, &model.Status, &model.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(&model), nil
}

// AddItem вставляет позицию заказа в транзакции из контекста, снимая цену
// с текущей записи товара тем же запросом. Если товар не найден, строка
// не вставляется и возвращается (nil, nil) — пропуск позиции решает вызывающий.
func (o *OrderRepo) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int32) (*domain.OrderItem, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase_cents)
		SELECT $1, $2, p.id, $3, p.price_cents
		FROM products p
		WHERE p.id = $4
		RETURNING id, order_id, product_id, quantity, price_at_purchase_cents;
	`

	var model converter.OrderItemModel
	err = tx.QueryRow(ctx, query, uuid.New(), orderID, quantity, productID).
		Scan(&model.ID, &model.OrderID, &model.ProductID, &model.Quantity, &model.PriceAtPurchaseCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ItemToEntity(&model), nil
}

// GetByID возвращает заказ вместе с позициями.
func (o *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		WHERE id = $1;
	`

	var model converter.OrderModel
	err := o.pool.QueryRow(ctx, query, id).
		Scan(&model.ID, &model.UserID, &model.Status, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := o.conv.ToEntity(&model)

	itemsByOrder, err := o.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	order.Items = itemsByOrder[order.ID]

	return order, nil
}

// List возвращает страницу всех заказов с позициями в порядке оформления.
func (o *OrderRepo) List(ctx context.Context, skip, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		ORDER BY created_at
		OFFSET $1 LIMIT $2;
	`

	rows, err := o.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.collectOrders(ctx, rows)
}

// ListByUser возвращает все заказы пользователя с позициями.
func (o *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at;
	`

	rows, err := o.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.collectOrders(ctx, rows)
}

// collectOrders вычитывает шапки заказов и дозагружает позиции одним запросом.
func (o *OrderRepo) collectOrders(ctx context.Context, rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var model converter.OrderModel
		if err := rows.Scan(&model.ID, &model.UserID, &model.Status, &model.CreatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		orders = append(orders, *o.conv.ToEntity(&model))
		ids = append(ids, model.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemsByOrder, err := o.loadItems(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// loadItems возвращает позиции указанных заказов, сгруппированные по заказу.
func (o *OrderRepo) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_purchase_cents
		FROM order_items
		WHERE order_id = ANY($1);
	`

	rows, err := o.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var model converter.OrderItemModel
		if err := rows.Scan(
			&model.ID, &model.OrderID, &model.ProductID,
			&model.Quantity, &model.PriceAtPurchaseCents,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		item := o.conv.ItemToEntity(&model)
		result[item.OrderID] = append(result[item.OrderID], *item)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
