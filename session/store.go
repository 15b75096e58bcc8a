package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyCart = "cart:%s"

// TTLCart keeps abandoned carts around for a week before redis drops them.
var TTLCart = 7 * 24 * time.Hour

// Store keeps each session's cart as a versioned JSON blob in redis,
// keyed by session ID.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Load returns the session's cart, or a fresh empty cart when none is
// stored yet. A blob with an unknown version is discarded rather than
// interpreted.
func (s *Store) Load(ctx context.Context, sessionID string) (Cart, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(keyCart, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewCart(), nil
	}
	if err != nil {
		return Cart{}, err
	}

	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil || cart.Version != CartVersion {
		return NewCart(), nil
	}
	if cart.Lines == nil {
		cart.Lines = make(map[uint]CartLine)
	}
	return cart, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, cart Cart) error {
	cart.Version = CartVersion
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, fmt.Sprintf(keyCart, sessionID), raw, TTLCart).Err()
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keyCart, sessionID)).Err()
}
