package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderUseCase_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &stubUserRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, IsActive: true}, nil
		},
	}

	newHeaderFn := func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
		return &domain.Order{ID: uuid.New(), UserID: order.UserID, Status: order.Status}, nil
	}

	t.Run("success commits the transaction", func(t *testing.T) {
		tx := &recordingTx{}
		orders := &stubOrderRepo{
			createHeaderFn: newHeaderFn,
			addItemFn: func(ctx context.Context, orderID, productID uuid.UUID, quantity int32) (*domain.OrderItem, error) {
				return &domain.OrderItem{
					ID:                   uuid.New(),
					OrderID:              orderID,
					ProductID:            productID,
					Quantity:             quantity,
					PriceAtPurchaseCents: 1000,
				}, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
				return &domain.Order{ID: id, UserID: userID, Status: domain.OrderStatusCompleted}, nil
			},
		}

		uc := NewOrderUC(orders, users, &stubOutboxRepo{}, &stubTxBeginner{tx: tx}, nopLogger{})

		placed, err := uc.PlaceOrder(ctx, NewPlaceOrderReq(userID, []OrderLine{
			{ProductID: uuid.New(), Quantity: 2},
		}))
		require.NoError(t, err)
		require.NotNil(t, placed)
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("AddItem failure rolls the transaction back", func(t *testing.T) {
		tx := &recordingTx{}
		boom := errors.New("insert order_items failed")
		orders := &stubOrderRepo{
			createHeaderFn: newHeaderFn,
			addItemFn: func(ctx context.Context, orderID, productID uuid.UUID, quantity int32) (*domain.OrderItem, error) {
				return nil, boom
			},
		}

		uc := NewOrderUC(orders, users, &stubOutboxRepo{}, &stubTxBeginner{tx: tx}, nopLogger{})

		_, err := uc.PlaceOrder(ctx, NewPlaceOrderReq(userID, []OrderLine{
			{ProductID: uuid.New(), Quantity: 1},
		}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))
		assert.True(t, tx.rolledBack, "открытая транзакция должна откатиться до возврата из PlaceOrder")
		assert.False(t, tx.committed)
	})

	t.Run("CreateHeader failure rolls the transaction back", func(t *testing.T) {
		tx := &recordingTx{}
		orders := &stubOrderRepo{
			createHeaderFn: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
				return nil, errors.New("insert orders failed")
			},
		}

		uc := NewOrderUC(orders, users, &stubOutboxRepo{}, &stubTxBeginner{tx: tx}, nopLogger{})

		_, err := uc.PlaceOrder(ctx, NewPlaceOrderReq(userID, nil))
		require.Error(t, err)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("outbox failure rolls the transaction back", func(t *testing.T) {
		tx := &recordingTx{}
		orders := &stubOrderRepo{createHeaderFn: newHeaderFn}
		outbox := &stubOutboxRepo{
			createFn: func(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
				return nil, errors.New("insert outbox_events failed")
			},
		}

		uc := NewOrderUC(orders, users, outbox, &stubTxBeginner{tx: tx}, nopLogger{})

		_, err := uc.PlaceOrder(ctx, NewPlaceOrderReq(userID, nil))
		require.Error(t, err)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("unknown user fails before the transaction opens", func(t *testing.T) {
		tx := &recordingTx{}
		missing := &stubUserRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
				return nil, errors.New("user not found")
			},
		}

		uc := NewOrderUC(&stubOrderRepo{}, missing, &stubOutboxRepo{}, &stubTxBeginner{tx: tx}, nopLogger{})

		_, err := uc.PlaceOrder(ctx, NewPlaceOrderReq(uuid.New(), nil))
		require.Error(t, err)
		assert.False(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})
}
