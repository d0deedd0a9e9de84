package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
	"github.com/medlinkvn/dms-backend/pkg/redis"
)

// SessionStore persists in-progress carts in Redis, keyed by the sales rep
// and the customer being ordered for. A session survives until it is cleared
// after a successful submission or its TTL lapses.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wires the store; ttl must be positive.
func NewSessionStore(client *redis.Client, ttl time.Duration) (*SessionStore, error) {
	if client == nil {
		return nil, errors.New("cart.NewSessionStore: redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("cart.NewSessionStore: ttl must be positive")
	}
	return &SessionStore{client: client, ttl: ttl}, nil
}

// Load returns the stored cart for the rep/customer pair, or an empty cart
// when no session exists.
func (s *SessionStore) Load(ctx context.Context, userID, customerID uuid.UUID) (*Cart, error) {
	key := s.client.CartSessionKey(userID.String(), customerID.String())
	payload, err := s.client.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart session")
	}

	c := NewCart()
	if err := json.Unmarshal([]byte(payload), c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding cart session")
	}
	return c, nil
}

// Save writes the cart back, refreshing the session TTL.
func (s *SessionStore) Save(ctx context.Context, userID, customerID uuid.UUID, c *Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart session")
	}
	key := s.client.CartSessionKey(userID.String(), customerID.String())
	if err := s.client.Set(ctx, key, string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart session")
	}
	return nil
}

// Clear discards the session. Called only after an order commits.
func (s *SessionStore) Clear(ctx context.Context, userID, customerID uuid.UUID) error {
	key := s.client.CartSessionKey(userID.String(), customerID.String())
	if err := s.client.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart session")
	}
	return nil
}
