package usecase

import (
	"time"

	"github.com/google/uuid"
)

// USER USECASE

// RegisterUserReq — запрос на регистрацию пользователя.
type RegisterUserReq struct {
	Email    string
	Password string
	IsAdmin  bool
}

// LoginReq — запрос на выпуск токена по паре e-mail/пароль.
type LoginReq struct {
	Email    string
	Password string
}

// TokenRes — выпущенный bearer-токен.
type TokenRes struct {
	AccessToken string
	TokenType   string
}

// PRODUCT USECASE

// CreateProductReq — запрос на создание или полную замену товара.
type CreateProductReq struct {
	Name        string
	Description *string
	PriceCents  int64
	ImageURL    *string
}

// AttachImageReq — запрос на загрузку изображения товара.
type AttachImageReq struct {
	ProductID uuid.UUID
	Data      []byte // байты изображения
	MimeType  string // Content-Type из multipart (image/jpeg)
	Size      int64  // фактический размер в байтах
	Name      string // оригинальное имя файла (для логов)
}

// ORDER USECASE

// OrderLine — одна запрошенная позиция заказа.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

// PlaceOrderReq — запрос на оформление заказа.
type PlaceOrderReq struct {
	UserID uuid.UUID
	Items  []OrderLine
}

// OrderPlacedPayload — JSON-полезная нагрузка события order.placed.
type OrderPlacedPayload struct {
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	ItemCount  int       `json:"item_count"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const OrderPlaced OutboxEventType = "order.placed"

// OutboxEvent — запись транзакционного outbox для событий заказов.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	OrderID     uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	OrderID uuid.UUID
	Payload []byte
}

// MAPPERS

func NewRegisterUserReq(email string, password string, isAdmin bool) *RegisterUserReq {
	return &RegisterUserReq{
		Email:    email,
		Password: password,
		IsAdmin:  isAdmin,
	}
}

func NewLoginReq(email string, password string) *LoginReq {
	return &LoginReq{
		Email:    email,
		Password: password,
	}
}

func NewTokenRes(accessToken string) *TokenRes {
	return &TokenRes{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}
}

func NewCreateProductReq(name string, description *string, priceCents int64, imageURL *string) *CreateProductReq {
	return &CreateProductReq{
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		ImageURL:    imageURL,
	}
}

func NewAttachImageReq(productID uuid.UUID, data []byte, mimeType string, size int64, name string) *AttachImageReq {
	return &AttachImageReq{
		ProductID: productID,
		Data:      data,
		MimeType:  mimeType,
		Size:      size,
		Name:      name,
	}
}

func NewPlaceOrderReq(userID uuid.UUID, items []OrderLine) *PlaceOrderReq {
	return &PlaceOrderReq{
		UserID: userID,
		Items:  items,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, orderID uuid.UUID, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   orderID,
		Payload:   payload,
		Status:    Pending,
	}
}

func NewWriteRawMessageReq(orderID uuid.UUID, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		OrderID: orderID,
		Payload: payload,
	}
}
