package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/grabble/internal/dependencies/clock"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidName        = errors.New("display name must be 1-32 characters")
)

// MaxDisplayNameLength bounds guest and registered display names
const MaxDisplayNameLength = 32

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ServiceInterface is the set of auth operations used by the API layer
type ServiceInterface interface {
	CreateGuestUser(ctx context.Context, displayName string) (*Session, error)
	RegisterUser(ctx context.Context, username, password, displayName string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	ValidateSession(token string) (*Session, error)
	InvalidateSession(token string)
}

// Service handles authentication and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

var _ ServiceInterface = (*Service)(nil)

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuestUser creates an anonymous user and session
func (s *Service) CreateGuestUser(ctx context.Context, displayName string) (*Session, error) {
	name, err := normalizeName(displayName)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:          newUserID(),
		DisplayName: name,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("guest created", slog.String("user_id", string(user.ID)))
	return s.createSession(user), nil
}

// RegisterUser creates a registered user account and session
func (s *Service) RegisterUser(ctx context.Context, username, password, displayName string) (*Session, error) {
	name, err := normalizeName(displayName)
	if err != nil {
		return nil, err
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	_, err = s.storage.GetRegisteredUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:          newUserID(),
		DisplayName: name,
		CreatedAt:   now,
	}
	registered := &model.RegisteredUser{
		UserID:       user.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredUser(ctx, registered); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", string(user.ID)), slog.String("username", username))
	return s.createSession(user), nil
}

// Login authenticates a registered user and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	ru, err := s.storage.GetRegisteredUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ru.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.storage.GetUser(ctx, ru.UserID)
	if err != nil {
		return nil, err
	}

	return s.createSession(user), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.InvalidateSession(token)
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetUser returns the user for a session token
func (s *Service) GetUser(token string) (*model.User, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	user := session.User
	return &user, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Service) createSession(user *model.User) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + uuid.NewString(),
		UserID:    user.ID,
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func newUserID() model.UserID {
	return model.UserID("u_" + uuid.NewString())
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxDisplayNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
