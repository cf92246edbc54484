package solicitud

import (
	"context"
	"encoding/json"
	"time"

	"urbanfix-backend/internal/cache"
)

const activeSessionKey = "solicitud:edit:active"

// SessionStore persists the single active edit session between requests.
// One key for the whole panel enforces the global edit focus: there is never
// more than one row being edited, whichever admin window asks.
type SessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionStore(c cache.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl}
}

// Begin opens a session for rec with a single set-if-absent, so two racing
// begins can never both win. The loser gets ErrEditInProgress; expired
// sessions count as absent.
func (s *SessionStore) Begin(ctx context.Context, rec Record) (EditSession, error) {
	session := NewEditSession(rec)
	raw, err := json.Marshal(session)
	if err != nil {
		return EditSession{}, err
	}

	won, err := s.cache.SetNX(ctx, activeSessionKey, raw, s.ttl)
	if err != nil {
		return EditSession{}, err
	}
	if !won {
		return EditSession{}, ErrEditInProgress
	}
	return session, nil
}

func (s *SessionStore) Get(ctx context.Context) (EditSession, error) {
	raw, ok, err := s.cache.Get(ctx, activeSessionKey)
	if err != nil {
		return EditSession{}, err
	}
	if !ok {
		return EditSession{}, ErrNoActiveEdit
	}
	var session EditSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt session is unrecoverable; drop it so the panel can
		// start over.
		_ = s.cache.Delete(ctx, activeSessionKey)
		return EditSession{}, ErrNoActiveEdit
	}
	return session, nil
}

func (s *SessionStore) Update(ctx context.Context, session EditSession) error {
	return s.put(ctx, session)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, activeSessionKey)
}

func (s *SessionStore) put(ctx context.Context, session EditSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, activeSessionKey, raw, s.ttl)
}
