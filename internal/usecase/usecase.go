package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
)

type UserUC interface {
	Register(ctx context.Context, req *RegisterUserReq) (*domain.User, error)
	Login(ctx context.Context, req *LoginReq) (*TokenRes, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
}

type ProductUC interface {
	Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *CreateProductReq) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, skip, limit int) ([]domain.Product, error)
	AttachImage(ctx context.Context, req *AttachImageReq) (*domain.Product, error)
}

type OrderUC interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*domain.Order, error)
	ListOrders(ctx context.Context, skip, limit int) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}
