// internal/services/cart_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

const (
	cartTTL        = 48 * time.Hour
	sessionTTL     = 24 * time.Hour
	recentViewsMax = 10
)

// CartService keeps carts, sessions and recently-viewed lists in Redis.
// Carts are ephemeral until checkout turns them into orders.
type CartService struct {
	rdb    *redis.Client
	config *config.Config
}

type CartItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type SessionData struct {
	UserID    string                 `json:"user_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func NewCartService(rdb *redis.Client, config *config.Config) *CartService {
	return &CartService{rdb: rdb, config: config}
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:cart", userID)
}

func recentViewsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:recent_views", userID)
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{Items: []CartItem{}}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch cart", err)
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, apperrors.Internal("failed to decode cart", err)
	}
	return &cart, nil
}

// SetItem adds or replaces a cart line. Quantity zero removes the line.
func (s *CartService) SetItem(ctx context.Context, userID uuid.UUID, item CartItem) (*Cart, error) {
	if item.Quantity < 0 {
		return nil, apperrors.Validation("quantity cannot be negative")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	items := cart.Items[:0]
	for _, existing := range cart.Items {
		if existing.ProductID == item.ProductID && equalVariant(existing.VariantID, item.VariantID) {
			found = true
			if item.Quantity == 0 {
				continue
			}
			existing.Quantity = item.Quantity
		}
		items = append(items, existing)
	}
	if !found && item.Quantity > 0 {
		items = append(items, item)
	}
	cart.Items = items

	if err := s.saveCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return apperrors.Internal("failed to clear cart", err)
	}
	return nil
}

func (s *CartService) saveCart(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return apperrors.Internal("failed to encode cart", err)
	}
	if err := s.rdb.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return apperrors.Internal("failed to store cart", err)
	}
	return nil
}

// RecordView pushes a product onto the user's recently-viewed list, keeping
// the newest entries only.
func (s *CartService) RecordView(ctx context.Context, userID, productID uuid.UUID) error {
	key := recentViewsKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.LRem(ctx, key, 0, productID.String())
	pipe.LPush(ctx, key, productID.String())
	pipe.LTrim(ctx, key, 0, recentViewsMax-1)
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Internal("failed to record product view", err)
	}
	return nil
}

func (s *CartService) RecentViews(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	values, err := s.rdb.LRange(ctx, recentViewsKey(userID), 0, recentViewsMax-1).Result()
	if err != nil {
		return nil, apperrors.Internal("failed to fetch recent views", err)
	}

	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *CartService) CreateSession(ctx context.Context, data SessionData) (string, error) {
	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		return "", apperrors.Internal("failed to generate session id", err)
	}

	data.CreatedAt = time.Now().UTC()
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", apperrors.Internal("failed to encode session", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(sessionID), encoded, sessionTTL).Err(); err != nil {
		return "", apperrors.Internal("failed to store session", err)
	}
	return sessionID, nil
}

func (s *CartService) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("session not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch session", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.Internal("failed to decode session", err)
	}
	return &session, nil
}

func (s *CartService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return apperrors.Internal("failed to delete session", err)
	}
	return nil
}

func equalVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
