package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

// DefaultLinkTokenTTL is how long an issued link code stays consumable
const DefaultLinkTokenTTL = 600 * time.Second

// Session is the per-chat state of the task creation dialogue
type Session struct {
	ChatID      types.ChatID
	Step        types.ConversationStep
	Title       string
	Description string
	StartedAt   time.Time
}

// Data carries the fields collected by one dialogue step. Empty fields are
// left untouched on merge.
type Data struct {
	Title       string
	Description string
}

type linkToken struct {
	userID types.UserID
	timer  *time.Timer
}

// Service holds the two families of ephemeral keyed state: pending link
// tokens and active conversation sessions. Both are shared between the HTTP
// request path and the polling worker, so one mutex guards them.
type Service struct {
	mu       sync.Mutex
	links    map[string]*linkToken
	sessions map[types.ChatID]*Session
	ttl      time.Duration
	closed   bool
}

type Option func(*Service)

// WithLinkTokenTTL overrides the link token lifetime, mainly for tests
func WithLinkTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		links:    make(map[string]*linkToken),
		sessions: make(map[types.ChatID]*Session),
		ttl:      DefaultLinkTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueLinkToken generates a short single-use code for the user and
// schedules its removal after the TTL. A code maps to exactly one user.
func (s *Service) IssueLinkToken(ctx context.Context, userID types.UserID) (string, error) {
	if err := userID.Validate(); err != nil {
		return "", goerr.Wrap(err, "cannot issue link token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", goerr.New("session store is closed")
	}

	var code string
	for {
		code = strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
		if _, taken := s.links[code]; !taken {
			break
		}
	}

	token := &linkToken{userID: userID}
	token.timer = time.AfterFunc(s.ttl, func() {
		s.expire(ctx, code)
	})
	s.links[code] = token

	return code, nil
}

func (s *Service) expire(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[code]; ok {
		delete(s.links, code)
		logging.From(ctx).Info("link code expired", "code", code)
	}
}

// ConsumeLinkToken atomically checks and removes the code. At most one
// caller for the same code ever succeeds; a second call, or a call after
// expiry, gets ErrNotFound.
func (s *Service) ConsumeLinkToken(ctx context.Context, code string) (types.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.links[code]
	if !ok {
		return "", goerr.Wrap(model.ErrNotFound, "unknown or expired link code", goerr.V("code", code))
	}

	delete(s.links, code)
	token.timer.Stop()

	return token.userID, nil
}

// StartSession creates a fresh session at the first dialogue step,
// discarding any stale session for the same chat.
func (s *Service) StartSession(chatID types.ChatID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[chatID] = &Session{
		ChatID:    chatID,
		Step:      types.StepAwaitingTitle,
		StartedAt: time.Now().UTC(),
	}
}

// AdvanceSession merges the collected data into the session and moves it to
// the next dialogue step, which it returns.
func (s *Service) AdvanceSession(chatID types.ChatID, data Data) (types.ConversationStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return "", goerr.Wrap(model.ErrNotFound, "no active session", goerr.V("chatID", chatID))
	}

	if data.Title != "" {
		sess.Title = data.Title
	}
	if data.Description != "" {
		sess.Description = data.Description
	}

	sess.Step = sess.Step.Next()
	return sess.Step, nil
}

// GetSession returns a copy of the chat's active session, if any
func (s *Service) GetSession(chatID types.ChatID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, false
	}

	copied := *sess
	return &copied, true
}

// ClearSession destroys the chat's session on completion, abort, or
// unrecoverable error
func (s *Service) ClearSession(chatID types.ChatID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
}

// Close stops all outstanding expiry timers. Issued codes become
// unconsumable.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for code, token := range s.links {
		token.timer.Stop()
		delete(s.links, code)
	}
	for chatID := range s.sessions {
		delete(s.sessions, chatID)
	}
}
