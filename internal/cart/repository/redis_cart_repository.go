package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"parkbooking/internal/domain"
)

const (
	cartKeyPrefix = "parkbooking:cart:"
	cartIndexKey  = "parkbooking:carts"
)

// RedisCartRepository keeps each cart as one JSON document. Every write
// refreshes the document's TTL, so idle carts expire on their own.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

func (r *RedisCartRepository) GetOrCreate(ctx context.Context, id *uuid.UUID) (*domain.Cart, error) {
	if id != nil {
		cart, err := r.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	}

	newID := uuid.Nil
	if id != nil {
		newID = *id
	}
	cart := domain.NewCart(newID)
	if err := r.Update(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *RedisCartRepository) Update(ctx context.Context, cart *domain.Cart) error {
	body, err := json.Marshal(newCartDocument(cart))
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, cartKey(cart.ID), body, r.ttl)
	pipe.SAdd(ctx, cartIndexKey, cart.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing cart: %w", err)
	}
	return nil
}

func (r *RedisCartRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, cartKey(id))
	pipe.SRem(ctx, cartIndexKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("deleting cart: %w", err)
	}
	return del.Val() > 0, nil
}

// GetAll returns live carts ordered by creation time. Index entries whose
// document has expired are pruned.
func (r *RedisCartRepository) GetAll(ctx context.Context) ([]*domain.Cart, error) {
	ids, err := r.client.SMembers(ctx, cartIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing carts: %w", err)
	}

	carts := make([]*domain.Cart, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		cart, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			if err := r.client.SRem(ctx, cartIndexKey, raw).Err(); err != nil {
				return nil, fmt.Errorf("pruning cart index: %w", err)
			}
			continue
		}
		carts = append(carts, cart)
	}

	sort.Slice(carts, func(i, j int) bool {
		if carts[i].CreatedAt.Equal(carts[j].CreatedAt) {
			return carts[i].ID.String() < carts[j].ID.String()
		}
		return carts[i].CreatedAt.Before(carts[j].CreatedAt)
	})
	return carts, nil
}

// GetByID returns nil when the cart is missing or has expired.
func (r *RedisCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	body, err := r.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var doc cartDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return doc.toDomain()
}

func cartKey(id uuid.UUID) string {
	return cartKeyPrefix + id.String()
}
