// Package otp issues and checks the handover codes a receiver gives the traveler on delivery.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a handover code stays valid after pickup.
const DefaultTTL = 24 * time.Hour

const codeDigits = 6

// Store keeps one pending code per delivery.
type Store interface {
	Save(ctx context.Context, deliveryID uuid.UUID, code string, ttl time.Duration) error
	// Verify reports whether code matches and consumes it on success.
	Verify(ctx context.Context, deliveryID uuid.UUID, code string) (bool, error)
}

// Generate returns a random zero-padded six digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// verifyAndDelete deletes the key only when it holds the submitted code.
var verifyAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore is a Store backed by Redis keys with expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(deliveryID uuid.UUID) string {
	return "otp:delivery:" + deliveryID.String()
}

// Save stores code for deliveryID, replacing any earlier code.
func (s *RedisStore) Save(ctx context.Context, deliveryID uuid.UUID, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(deliveryID), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

// Verify checks code atomically and deletes it when it matches.
func (s *RedisStore) Verify(ctx context.Context, deliveryID uuid.UUID, code string) (bool, error) {
	deleted, err := verifyAndDelete.Run(ctx, s.client, []string{key(deliveryID)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("failed to verify otp: %w", err)
	}
	return deleted == 1, nil
}
