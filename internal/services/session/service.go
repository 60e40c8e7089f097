package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/BorDevTech/games-server/internal/dependencies/clock"
	"github.com/BorDevTech/games-server/internal/dependencies/random"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/storage"
)

// TokenBytes is the number of random bytes behind a session token
const TokenBytes = 32

// Service manages anonymous player sessions: opaque tokens mapped to a
// username, a derived player id, and the player's current room.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	ttl time.Duration
}

// Config holds configuration for the session service
type Config struct {
	// TTL is the idle lifetime of a session; defaults to model.SessionTTL
	TTL time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TTL: model.SessionTTL,
	}
}

// New creates a new session Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger,
		ttl:     cfg.TTL,
	}
}

// Create implements create-or-update for the caller's token.
//
// Policy: if the presented token maps to a live session with the same
// username, the session is refreshed in place. If the username differs,
// the old session is deleted and a brand new one is minted, rotating both
// the token and the derived player id. This keeps the player-id
// derivation (token + username) consistent with what callers observe.
func (s *Service) Create(ctx context.Context, current model.SessionID, username string, room *model.RoomCode) (*model.Session, error) {
	now := s.clock.Now()

	if current != "" {
		existing, err := s.storage.GetSession(ctx, current)
		if err == nil && !s.expired(existing, now) {
			if existing.Username == username {
				existing.LastActivity = now
				if room != nil {
					existing.CurrentRoom = room
				}
				if err := s.storage.SaveSession(ctx, existing); err != nil {
					return nil, err
				}
				return existing, nil
			}
			// Username changed: rotate the session entirely
			if err := s.storage.DeleteSession(ctx, current); err != nil {
				return nil, err
			}
		}
	}

	id := model.SessionID("sess_" + s.random.Token(TokenBytes))
	session := &model.Session{
		ID:           id,
		PlayerID:     model.DerivePlayerID(id, username),
		Username:     username,
		CreatedAt:    now,
		LastActivity: now,
		CurrentRoom:  room,
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	// Opportunistic sweep; failure only costs memory until the next one
	if _, err := s.SweepExpired(ctx); err != nil {
		s.logger.Warn("session sweep failed", slog.String("error", err.Error()))
	}

	return session, nil
}

// Get returns the session for the given token. Expired sessions are
// purged and reported as not found. Get is a pure read: it does not bump
// LastActivity; use Touch for that.
func (s *Service) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := s.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.expired(session, s.clock.Now()) {
		if err := s.storage.DeleteSession(ctx, id); err != nil {
			return nil, err
		}
		return nil, model.ErrSessionNotFound
	}

	return session, nil
}

// Touch bumps the session's LastActivity
func (s *Service) Touch(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.LastActivity = s.clock.Now()
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetCurrentRoom updates which room the session's player is in.
// Pass nil to clear it.
func (s *Service) SetCurrentRoom(ctx context.Context, id model.SessionID, room *model.RoomCode) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.CurrentRoom = room
	session.LastActivity = s.clock.Now()
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *Service) Delete(ctx context.Context, id model.SessionID) error {
	return s.storage.DeleteSession(ctx, id)
}

func (s *Service) expired(session *model.Session, now time.Time) bool {
	return now.Sub(session.LastActivity) > s.ttl
}

// SweepExpired scans all sessions and removes any idle past the TTL.
// Idempotent: a second sweep with no intervening activity removes nothing.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	removed := 0
	for _, session := range sessions {
		if now.Sub(session.LastActivity) > s.ttl {
			if err := s.storage.DeleteSession(ctx, session.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("swept expired sessions", slog.Int("removed", removed))
	}
	return removed, nil
}
