//go:generate goverter gen github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/google/uuid"
)

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertUUID
type UserConverter interface {
	ToModel(entity *domain.User) *UserModel
	ToEntity(model *UserModel) *domain.User
	ToArrEntity(models []UserModel) []domain.User
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertUUID
// goverter:extend ConvertPointerString
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

// OrderConverter преобразует сущности Order и OrderItem между domain и моделями PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertUUID
// goverter:extend ConvertOrderStatus
type OrderConverter interface {
	ToEntity(model *OrderModel) *domain.Order
	ItemToEntity(model *OrderItemModel) *domain.OrderItem
	ToArrItemEntity(models []OrderItemModel) []domain.OrderItem
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertUUID
// goverter:extend ConvertOutBoxStatus
// goverter:extend ConvertOutboxEventType
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertUUID(id uuid.UUID) uuid.UUID {
	return id
}

func ConvertPointerString(s *string) *string {
	return s
}

func ConvertOrderStatus(s domain.OrderStatus) domain.OrderStatus {
	return s
}

func ConvertOutBoxStatus(s usecase.OutboxStatus) usecase.OutboxStatus {
	return s
}

func ConvertOutboxEventType(t usecase.OutboxEventType) usecase.OutboxEventType {
	return t
}
