package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibliotech/circulation-api/internal/core/ports"
)

const (
	flashKeyPrefix = "flash:"
	flashTTL       = 10 * time.Minute
)

// FlashStore keeps one pending notification per session under flash:<sid>.
// A flash survives at most flashTTL; a client that never polls does not
// accumulate stale messages.
type FlashStore struct {
	client *redis.Client
}

func NewFlashStore(client *redis.Client) *FlashStore {
	return &FlashStore{client: client}
}

// Set overwrites any pending flash for the session.
func (s *FlashStore) Set(ctx context.Context, sessionID string, flash ports.Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}
	if err := s.client.Set(ctx, flashKeyPrefix+sessionID, payload, flashTTL).Err(); err != nil {
		return fmt.Errorf("store flash: %w", err)
	}
	return nil
}

// Pop atomically reads and clears the pending flash. GETDEL makes the
// read-once guarantee hold across concurrent polls.
func (s *FlashStore) Pop(ctx context.Context, sessionID string) (*ports.Flash, error) {
	payload, err := s.client.GetDel(ctx, flashKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load flash: %w", err)
	}

	var flash ports.Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil, fmt.Errorf("unmarshal flash: %w", err)
	}
	return &flash, nil
}
