package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-backend/pkg/clients"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует товары каталога в Redis с TTL.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает закэшированный товар или (nil, nil) при промахе.
func (c *CacheRepo) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := c.productKey(id)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}

		c.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil // повреждённая запись равносильна промаху
	}

	if model.ID != id {
		c.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", id, model.ID)
		if err := c.client.Client.Del(context.Background(), key).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // cache miss
	}

	return c.conv.ToEntity(&model), nil
}

// SetProduct кэширует товар с заданным TTL.
func (c *CacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	model := c.conv.ToRedisModel(product)

	data, err := json.Marshal(model)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.productKey(model.ID), data, c.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProduct удаляет товар из кэша
func (c *CacheRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client.Del(ctx, c.productKey(id)).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// productKey возвращает Redis-ключ для одного товара
func (c *CacheRepo) productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}
