package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error)
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, skip, limit int) ([]domain.Product, error)
}

type OrderRepository interface {
	// CreateHeader выполняется в транзакции из контекста.
	CreateHeader(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// AddItem выполняется в транзакции из контекста. Снимок цены и вставка позиции
	// делаются одним запросом; если товар не найден, возвращается (nil, nil).
	AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int32) (*domain.OrderItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, skip, limit int) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetProduct возвращает (nil, nil) при промахе кэша.
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
