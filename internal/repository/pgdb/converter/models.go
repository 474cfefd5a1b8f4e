package converter

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/google/uuid"
)

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          uuid.UUID  `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	PriceCents  int64      `db:"price_cents"`
	ImageURL    *string    `db:"image_url"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID        uuid.UUID          `db:"id"`
	UserID    uuid.UUID          `db:"user_id"`
	Status    domain.OrderStatus `db:"status"`
	CreatedAt time.Time          `db:"created_at"`
}

// OrderItemModel представляет запись таблицы order_items в PostgreSQL.
type OrderItemModel struct {
	ID                   uuid.UUID `db:"id"`
	OrderID              uuid.UUID `db:"order_id"`
	ProductID            uuid.UUID `db:"product_id"`
	Quantity             int32     `db:"quantity"`
	PriceAtPurchaseCents int64     `db:"price_at_purchase_cents"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64                   `db:"id"`
	EventID     string                  `db:"event_id"`
	EventType   usecase.OutboxEventType `db:"event_type"`
	OrderID     uuid.UUID               `db:"order_id"`
	Payload     []byte                  `db:"payload"`
	Status      usecase.OutboxStatus    `db:"status"`
	CreatedAt   time.Time               `db:"created_at"`
	ProcessedAt *time.Time              `db:"processed_at"`
}
