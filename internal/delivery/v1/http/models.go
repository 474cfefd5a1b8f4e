package http

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
)

// REQUESTS

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type productRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	ImageURL    *string `json:"image_url"`
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items"`
}

// RESPONSES

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ProductResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       string     `json:"price"`
	ImageURL    *string    `json:"image_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type OrderItemResponse struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int32     `json:"quantity"`
	PriceAtPurchase string    `json:"price_at_purchase"`
}

type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

// MAPPERS

func toUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func toUserResponses(users []domain.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, *toUserResponse(&users[i]))
	}
	return res
}

func toProductResponse(product *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       formatCents(product.PriceCents),
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, *toProductResponse(&products[i]))
	}
	return res
}

func toOrderResponse(order *domain.Order) *OrderResponse {
	// Позиции сериализуются как [], а не null
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: formatCents(item.PriceAtPurchaseCents),
		})
	}

	return &OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		Items:     items,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, *toOrderResponse(&orders[i]))
	}
	return res
}
