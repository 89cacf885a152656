package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/redis"
)

// DefaultTokenTTL keeps abandoned guest carts resolvable for two weeks.
const DefaultTokenTTL = 14 * 24 * time.Hour

// TokenStore maps opaque guest tokens to cart ids in redis, so a shopper
// without an account can come back to their basket.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore builds a token store. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints a fresh token for the cart and stores the mapping.
func (s *TokenStore) Issue(ctx context.Context, cartID uuid.UUID) (string, error) {
	token := uuid.NewString()
	key := s.client.CartTokenKey(token)
	if err := s.client.Set(ctx, key, cartID.String(), s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the cart id behind the token, refreshing its TTL.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	key := s.client.CartTokenKey(token)
	value, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart token not found")
		}
		return uuid.Nil, err
	}
	cartID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt cart token mapping")
	}
	// Sliding expiry: an active shopper keeps their cart alive.
	if err := s.client.Set(ctx, key, value, s.ttl); err != nil {
		return uuid.Nil, err
	}
	return cartID, nil
}

// Revoke drops the token, e.g. after checkout converts the cart.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.client.CartTokenKey(token))
}
