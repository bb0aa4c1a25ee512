package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adcraft/internal/controller"
)

var ErrNotFound = errors.New("session not found")

// Factory builds the controller for a new session.
type Factory func(locale string) *controller.Controller

// Session is one open form.
type Session struct {
	ID         string
	Controller *controller.Controller
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store keeps sessions in process memory. Nothing is persisted; a restart
// starts every user from a fresh form.
type Store struct {
	factory Factory
	idleTTL time.Duration
	logger  zerolog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(factory Factory, idleTTL time.Duration, opts ...Option) *Store {
	s := &Store{
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   zerolog.Nop(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(locale string) *Session {
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: s.factory(locale),
		CreatedAt:  now,
		lastSeen:   now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Debug().Str("session_id", sess.ID).Msg("session created")
	return sess
}

// Get returns the session and marks it as recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	sess.Controller.Close()
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.idleTTL {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
	for _, sess := range expired {
		sess.Controller.Close()
	}
	if len(expired) > 0 {
		s.logger.Info().Int("expired", len(expired)).Msg("idle sessions swept")
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Close removes every session and waits for their generations to finish.
func (s *Store) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Controller.Close()
	}
}
