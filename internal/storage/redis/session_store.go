package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/internal/service"
	"villagevoice/pkg/e"

	goredis "github.com/redis/go-redis/v9"
)

var _ service.SessionStore = (*SessionStore)(nil)

// SessionStore keeps sessions under session:<id> and indexes them by refresh
// token under refresh:<token>. Both keys share the session TTL.
type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(r *Redis) *SessionStore {
	return &SessionStore{client: r.Client}
}

func sessionKey(id string) string    { return "session:" + id }
func refreshKey(token string) string { return "refresh:" + token }

func (s *SessionStore) Save(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	const op = "redis.SessionStore.Save"

	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionKey(sess.ID), b, ttl)
		p.Set(ctx, refreshKey(sess.RefreshToken), sess.ID, ttl)
		return nil
	})
	if err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	const op = "redis.SessionStore.Get"

	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		return nil, e.WrapError(ctx, op, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &sess, nil
}

// Consume deletes the refresh index with GETDEL, so a token is honoured at
// most once even under concurrent refreshes.
func (s *SessionStore) Consume(ctx context.Context, token string) (*domain.Session, error) {
	const op = "redis.SessionStore.Consume"

	id, err := s.client.GetDel(ctx, refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		return nil, e.WrapError(ctx, op, err)
	}

	data, err := s.client.GetDel(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		return nil, e.WrapError(ctx, op, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &sess, nil
}
