package pgdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter/generated"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/DRSN-tech/shop-backend/pkg/postgres"
	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDBPort = 54329

var testDB *postgres.PgDatabase

// nopLogger нужен там, где логгер обязателен, но вывод в тестах не интересен.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

func TestMain(m *testing.M) {
	epg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username("test").
		Password("test").
		Database("shop_test").
		Port(testDBPort).
		StartTimeout(60 * time.Second))

	if err := epg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := run(m, epg)
	os.Exit(code)
}

func run(m *testing.M, epg *embeddedpostgres.EmbeddedPostgres) int {
	defer epg.Stop()

	dbCfg := &cfg.PGDBCfg{
		Host:     "localhost",
		Port:     fmt.Sprintf("%d", testDBPort),
		User:     "test",
		Password: "test",
		DBName:   "shop_test",
		SSLMode:  "disable",
	}

	db, err := postgres.Connect(dbCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := db.RunMigrationsFrom(logger.NewSlogLogger(), "file://../../../db/migrations"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		return 1
	}

	testDB = db
	return m.Run()
}

func newUserRepo() *UserRepo {
	return NewUserRepo(testDB.Pool, generated.NewUserConverterImpl())
}

func newProductRepo() *ProductRepo {
	return NewProductRepo(testDB.Pool, generated.NewProductConverterImpl())
}

func newOrderRepo() *OrderRepo {
	return NewOrderRepo(testDB.Pool, generated.NewOrderConverterImpl())
}

func newOutboxRepo() *OutboxEventRepo {
	return NewOutboxEventRepo(testDB.Pool, generated.NewOutboxEventConverterImpl())
}

func mustCreateUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user, err := newUserRepo().Create(context.Background(), domain.NewUser(email, "hash", false))
	require.NoError(t, err)
	return user
}

func mustCreateProduct(t *testing.T, name string, priceCents int64) *domain.Product {
	t.Helper()

	product, err := newProductRepo().Create(context.Background(), domain.NewProduct(name, nil, priceCents, nil))
	require.NoError(t, err)
	return product
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo()

	user := mustCreateUser(t, "repo-user@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, domain.NewUser("repo-user@example.com", "other-hash", false))
		assert.True(t, errors.Is(err, e.ErrEmailTaken))
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "repo-user@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, e.ErrUserNotFound))

		_, err = repo.GetByEmail(ctx, "ghost@example.com")
		assert.True(t, errors.Is(err, e.ErrUserNotFound))
	})

	t.Run("list", func(t *testing.T) {
		users, err := repo.List(ctx, 0, 100)
		require.NoError(t, err)
		assert.NotEmpty(t, users)
	})
}

func TestProductRepo(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo()

	product := mustCreateProduct(t, "Gadget", 12550)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Nil(t, product.UpdatedAt)

	t.Run("update sets updated_at", func(t *testing.T) {
		desc := "улучшенная версия"
		updated, err := repo.Update(ctx, product.ID, domain.NewProduct("Gadget v2", &desc, 13000, nil))
		require.NoError(t, err)
		assert.Equal(t, "Gadget v2", updated.Name)
		assert.Equal(t, int64(13000), updated.PriceCents)
		require.NotNil(t, updated.UpdatedAt)
	})

	t.Run("update image url", func(t *testing.T) {
		updated, err := repo.UpdateImageURL(ctx, product.ID, "bucket/key.png")
		require.NoError(t, err)
		require.NotNil(t, updated.ImageURL)
		assert.Equal(t, "bucket/key.png", *updated.ImageURL)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, e.ErrProductNotFound))

		_, err = repo.Update(ctx, uuid.New(), domain.NewProduct("Nope", nil, 1, nil))
		assert.True(t, errors.Is(err, e.ErrProductNotFound))

		err = repo.Delete(ctx, uuid.New())
		assert.True(t, errors.Is(err, e.ErrProductNotFound))
	})

	t.Run("delete", func(t *testing.T) {
		doomed := mustCreateProduct(t, "Doomed", 100)
		require.NoError(t, repo.Delete(ctx, doomed.ID))

		_, err := repo.GetByID(ctx, doomed.ID)
		assert.True(t, errors.Is(err, e.ErrProductNotFound))
	})
}

// TestPlaceOrderWorkflow прогоняет оформление заказа через usecase с живой БД:
// одна транзакция, снимок цены, пропуск несуществующих товаров, outbox-событие.
func TestPlaceOrderWorkflow(t *testing.T) {
	ctx := context.Background()

	user := mustCreateUser(t, "buyer@example.com")
	cheap := mustCreateProduct(t, "Cheap", 1000)
	pricey := mustCreateProduct(t, "Pricey", 250000)

	uc := usecase.NewOrderUC(newOrderRepo(), newUserRepo(), newOutboxRepo(), testDB.Pool, nopLogger{})

	order, err := uc.PlaceOrder(ctx, usecase.NewPlaceOrderReq(user.ID, []usecase.OrderLine{
		{ProductID: cheap.ID, Quantity: 3},
		{ProductID: uuid.New(), Quantity: 1}, // несуществующий товар
		{ProductID: pricey.ID, Quantity: 1},
	}))
	require.NoError(t, err)

	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	// Позиция с несуществующим товаром пропущена
	require.Len(t, order.Items, 2)

	byProduct := make(map[uuid.UUID]domain.OrderItem, len(order.Items))
	for _, item := range order.Items {
		byProduct[item.ProductID] = item
	}
	assert.Equal(t, int32(3), byProduct[cheap.ID].Quantity)
	assert.Equal(t, int64(1000), byProduct[cheap.ID].PriceAtPurchaseCents)
	assert.Equal(t, int64(250000), byProduct[pricey.ID].PriceAtPurchaseCents)

	t.Run("price snapshot survives product update", func(t *testing.T) {
		_, err := newProductRepo().Update(ctx, cheap.ID, domain.NewProduct("Cheap", nil, 9999, nil))
		require.NoError(t, err)

		reread, err := uc.ListUserOrders(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, reread, 1)

		for _, item := range reread[0].Items {
			if item.ProductID == cheap.ID {
				assert.Equal(t, int64(1000), item.PriceAtPurchaseCents)
			}
		}
	})

	t.Run("referenced product cannot be deleted", func(t *testing.T) {
		err := newProductRepo().Delete(ctx, cheap.ID)
		assert.True(t, errors.Is(err, e.ErrProductReferenced))
	})

	t.Run("outbox event written in same transaction", func(t *testing.T) {
		events, err := newOutboxRepo().GetAndMarkAsProcessing(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, events)

		var found *usecase.OutboxEvent
		for _, event := range events {
			if event.OrderID == order.ID {
				found = event
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, usecase.OrderPlaced, found.EventType)

		var payload usecase.OrderPlacedPayload
		require.NoError(t, json.Unmarshal(found.Payload, &payload))
		assert.Equal(t, order.ID, payload.OrderID)
		assert.Equal(t, 2, payload.ItemCount)
		assert.Equal(t, int64(3*1000+250000), payload.TotalCents)

		require.NoError(t, newOutboxRepo().MarkAsProcessed(ctx, found.ID))

		// Повторная выборка обработанное событие не возвращает
		again, err := newOutboxRepo().GetAndMarkAsProcessing(ctx, 10)
		require.NoError(t, err)
		for _, event := range again {
			assert.NotEqual(t, found.ID, event.ID)
		}
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		_, err := uc.PlaceOrder(ctx, usecase.NewPlaceOrderReq(uuid.New(), []usecase.OrderLine{
			{ProductID: cheap.ID, Quantity: 1},
		}))
		assert.True(t, errors.Is(err, e.ErrUserNotFound))
	})

	t.Run("empty order has no items", func(t *testing.T) {
		empty, err := uc.PlaceOrder(ctx, usecase.NewPlaceOrderReq(user.ID, nil))
		require.NoError(t, err)
		assert.Empty(t, empty.Items)
	})
}

func TestOrderRepo_CascadeDelete(t *testing.T) {
	ctx := context.Background()

	user := mustCreateUser(t, "cascade@example.com")
	product := mustCreateProduct(t, "Cascade item", 500)

	uc := usecase.NewOrderUC(newOrderRepo(), newUserRepo(), newOutboxRepo(), testDB.Pool, nopLogger{})
	order, err := uc.PlaceOrder(ctx, usecase.NewPlaceOrderReq(user.ID, []usecase.OrderLine{
		{ProductID: product.ID, Quantity: 2},
	}))
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	// Удаление шапки заказа уносит позиции через ON DELETE CASCADE
	_, err = testDB.Pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", order.ID)
	require.NoError(t, err)

	var count int
	err = testDB.Pool.QueryRow(ctx, "SELECT count(*) FROM order_items WHERE order_id = $1", order.ID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	// После снятия ссылок товар снова можно удалить
	require.NoError(t, newProductRepo().Delete(ctx, product.ID))
}
