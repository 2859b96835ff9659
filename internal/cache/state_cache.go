package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"apexhire/internal/interview"
	"apexhire/internal/model"
)

// Namespace keys for the persisted state. Everything the service stores
// in Redis lives under "apexhire:".
const (
	sessionKey    = "apexhire:session"
	candidatesKey = "apexhire:candidates"
)

// StateCache persists the session snapshot and the candidate archive so
// both survive a restart and are rehydrated on boot.
type StateCache interface {
	SaveSession(ctx context.Context, snap interview.Snapshot) error
	LoadSession(ctx context.Context) (*interview.Snapshot, error)
	ClearSession(ctx context.Context) error
	SaveCandidates(ctx context.Context, records []model.CandidateRecord) error
	LoadCandidates(ctx context.Context) ([]model.CandidateRecord, error)
}

type stateCache struct {
	client *redis.Client
}

// NewStateCache creates a Redis-backed state cache
func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{client: client}
}

func (c *stateCache) SaveSession(ctx context.Context, snap interview.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey, data, 0).Err()
}

func (c *stateCache) LoadSession(ctx context.Context) (*interview.Snapshot, error) {
	data, err := c.client.Get(ctx, sessionKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap interview.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *stateCache) ClearSession(ctx context.Context) error {
	return c.client.Del(ctx, sessionKey).Err()
}

func (c *stateCache) SaveCandidates(ctx context.Context, records []model.CandidateRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, candidatesKey, data, 0).Err()
}

func (c *stateCache) LoadCandidates(ctx context.Context) ([]model.CandidateRecord, error) {
	data, err := c.client.Get(ctx, candidatesKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []model.CandidateRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	return records, nil
}
