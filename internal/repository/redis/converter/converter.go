//go:generate goverter gen github.com/DRSN-tech/shop-backend/internal/repository/redis/converter

package converter

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
)

// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertUUID
// goverter:extend ConvertPointerString
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
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
