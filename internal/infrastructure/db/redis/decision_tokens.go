package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// DecisionTokenStore keeps the single-use email decision tokens.
// Key format: decision:<token>. Single-use is enforced by the store, not
// the caller: Consume is a GETDEL, so two concurrent clicks on the same
// link race on Redis and exactly one wins.
type DecisionTokenStore struct {
	client *redis.Client
}

func NewDecisionTokenStore(client *redis.Client) *DecisionTokenStore {
	return &DecisionTokenStore{client: client}
}

type decisionEntry struct {
	ReservationID string `json:"reservation_id"`
	Approve       bool   `json:"approve"`
}

// Save stores the token with a TTL; an expired token just disappears.
func (s *DecisionTokenStore) Save(ctx context.Context, token string, ref domain.DecisionRef, ttl time.Duration) error {
	payload, err := json.Marshal(decisionEntry{ReservationID: ref.ReservationID, Approve: ref.Approve})
	if err != nil {
		return fmt.Errorf("encode decision token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store decision token: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the token. Unknown, expired and
// already-consumed tokens are indistinguishable to the caller.
func (s *DecisionTokenStore) Consume(ctx context.Context, token string) (*domain.DecisionRef, error) {
	payload, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDecisionLinkInvalid
		}
		return nil, fmt.Errorf("consume decision token: %w", err)
	}

	var entry decisionEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, fmt.Errorf("decode decision token: %w", err)
	}
	return &domain.DecisionRef{ReservationID: entry.ReservationID, Approve: entry.Approve}, nil
}

func (s *DecisionTokenStore) key(token string) string {
	return "decision:" + token
}
