package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	propertyKeyPrefix = "property:"
	defaultTTL        = 5 * time.Minute
)

// NewRedisClient connects and pings Redis.
func NewRedisClient(addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", addr), zap.Error(err))
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", addr))
	return rdb, nil
}

// PropertyCache keeps read-through copies of properties, tags included.
type PropertyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewPropertyCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *PropertyCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PropertyCache{
		client: client,
		ttl:    ttl,
		logger: log.Named("PropertyCache"),
	}
}

func propertyKey(id string) string {
	return propertyKeyPrefix + id
}

// GetProperty returns nil, nil on a cache miss.
func (c *PropertyCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	data, err := c.client.Get(ctx, propertyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Error("Redis Get operation failed", zap.String("property_id", id), zap.Error(err))
		return nil, fmt.Errorf("PropertyCache.GetProperty for '%s': %w", id, err)
	}
	var p domain.Property
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("PropertyCache.GetProperty decode '%s': %w", id, err)
	}
	return &p, nil
}

func (c *PropertyCache) SetProperty(ctx context.Context, p *domain.Property) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("PropertyCache.SetProperty encode '%s': %w", p.ID, err)
	}
	if err := c.client.Set(ctx, propertyKey(p.ID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Redis Set operation failed", zap.String("property_id", p.ID), zap.Error(err))
		return fmt.Errorf("PropertyCache.SetProperty for '%s': %w", p.ID, err)
	}
	c.logger.Debug("Property cached", zap.String("property_id", p.ID), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *PropertyCache) DeleteProperty(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, propertyKey(id)).Err(); err != nil {
		c.logger.Error("Redis Del operation failed", zap.String("property_id", id), zap.Error(err))
		return fmt.Errorf("PropertyCache.DeleteProperty for '%s': %w", id, err)
	}
	return nil
}
