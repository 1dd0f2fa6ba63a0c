package selection

import (
	"context"
	"errors"
	"time"

	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
)

// Store persists selection state in Redis. State lives exactly as long as
// the session registry entry; both slide on every write.
type Store interface {
	Save(ctx context.Context, state *State) error
	Load(ctx context.Context, sessionID string) (*State, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewStore(cacheService cache.Service, ttl time.Duration) Store {
	return &redisStore{cache: cacheService, ttl: ttl}
}

func (s *redisStore) Save(ctx context.Context, state *State) error {
	state.UpdatedAt = time.Now().UTC()
	return s.cache.Set(ctx, constants.BuildSelectionKey(state.SessionID), state, s.ttl)
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (*State, error) {
	var state State
	err := s.cache.Get(ctx, constants.BuildSelectionKey(sessionID), &state)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, constants.BuildSelectionKey(sessionID))
}
