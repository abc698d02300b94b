package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/go-redis/redis/v8"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// GuestCart is the anonymous shopping cart, keyed by browser session.
// Carts never touch MySQL; checkout reads the cart here and deletes it.
type GuestCart struct {
	SessionID string          `json:"session_id"`
	Items     []GuestCartItem `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type GuestCartItem struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

const cartTTL = 7 * 24 * time.Hour

func (r *RedisRepository) SaveCart(ctx context.Context, cart *GuestCart) error {
	cart.UpdatedAt = time.Now()
	key := fmt.Sprintf("cart:%s", cart.SessionID)
	return r.SetJSON(ctx, key, cart, cartTTL)
}

func (r *RedisRepository) GetCart(ctx context.Context, sessionID string) (*GuestCart, error) {
	key := fmt.Sprintf("cart:%s", sessionID)
	var cart GuestCart
	if err := r.GetJSON(ctx, key, &cart); err != nil {
		if err == redis.Nil {
			return &GuestCart{SessionID: sessionID}, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *RedisRepository) DeleteCart(ctx context.Context, sessionID string) error {
	return r.Del(ctx, fmt.Sprintf("cart:%s", sessionID))
}

// Promo codes are immutable once created, so a cached hit never goes
// stale; the TTL only bounds memory.
const promoTTL = 30 * time.Minute

func (r *RedisRepository) CachePromoCode(ctx context.Context, promo *models.PromoCode) error {
	key := fmt.Sprintf("promo:%s", strings.ToUpper(promo.Code))
	return r.SetJSON(ctx, key, promo, promoTTL)
}

func (r *RedisRepository) GetPromoCodeCache(ctx context.Context, code string) (*models.PromoCode, error) {
	key := fmt.Sprintf("promo:%s", strings.ToUpper(strings.TrimSpace(code)))
	var promo models.PromoCode
	if err := r.GetJSON(ctx, key, &promo); err != nil {
		return nil, err
	}
	return &promo, nil
}
