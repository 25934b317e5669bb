// Package session resolves who is signed in and with which role.
//
// Identities live in the users table with bcrypt password hashes. A signed-in
// session is an HS256 JWT; the role is not carried in the token but looked up
// from the profiles table on every resolution, so role changes apply at once.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	issuer            = "restaurant-pos"
	minPasswordLength = 6
)

// Session is a resolved, signed-in identity.
type Session struct {
	ID        string     `json:"session_id"`
	Token     string     `json:"token,omitempty"`
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

// ChangeKind says what happened to a session.
type ChangeKind string

const (
	SignedIn  ChangeKind = "signed_in"
	SignedOut ChangeKind = "signed_out"
)

// Change is delivered to OnSessionChange listeners.
type Change struct {
	Kind    ChangeKind
	Session Session
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager implements sign-up, sign-in, sign-out and session resolution.
type Manager struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	secret   []byte
	ttl      time.Duration
	cost     int
	logger   zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time // token id -> expiry
	listeners map[uint64]func(Change)
	nextID    uint64
}

// NewManager creates a session manager.
func NewManager(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	cfg config.AuthConfig,
	logger zerolog.Logger,
) *Manager {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Manager{
		users:     users,
		profiles:  profiles,
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.TokenTTL,
		cost:      cost,
		logger:    logger.With().Str("component", "session").Logger(),
		now:       time.Now,
		revoked:   make(map[string]time.Time),
		listeners: make(map[uint64]func(Change)),
	}
}

// SignUp creates an identity and its profile with role.
func (m *Manager) SignUp(ctx context.Context, creds model.Credentials, role model.Role) (*model.User, error) {
	email := normalizeEmail(creds.Email)
	if !strings.Contains(email, "@") {
		return nil, model.ErrInvalidCredentials
	}
	if len(creds.Password) < minPasswordLength {
		return nil, model.ErrWeakPassword
	}
	if !role.Valid() {
		return nil, model.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), m.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    m.now().UTC(),
	}
	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		m.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := m.profiles.Upsert(ctx, model.Profile{ID: user.ID, Role: role}); err != nil {
		m.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create profile")
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	m.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(role)).
		Msg("user signed up")

	return user, nil
}

// CreateStaff creates a staff account. Callers gate it to admins.
func (m *Manager) CreateStaff(ctx context.Context, creds model.Credentials) (*model.User, error) {
	return m.SignUp(ctx, creds, model.RoleStaff)
}

// SignIn checks the credentials and issues a session token.
func (m *Manager) SignIn(ctx context.Context, creds model.Credentials) (*Session, error) {
	email := normalizeEmail(creds.Email)

	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		m.logger.Warn().Str("email", email).Msg("sign-in for unknown email")
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		m.logger.Warn().Str("user_id", user.ID.String()).Msg("sign-in with wrong password")
		return nil, model.ErrInvalidCredentials
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	sessionID := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   user.ID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	role, err := m.resolveRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        sessionID,
		Token:     signed,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      role,
		ExpiresAt: expiresAt.UTC(),
	}

	m.logger.Info().Str("user_id", user.ID.String()).Msg("signed in")
	m.notify(Change{Kind: SignedIn, Session: *sess})
	return sess, nil
}

// SignOut revokes the token. Signing out an already revoked token is a no-op.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	c, err := m.parse(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if _, done := m.revoked[c.ID]; done {
		m.mu.Unlock()
		return nil
	}
	m.pruneLocked()
	m.revoked[c.ID] = c.ExpiresAt.Time
	m.mu.Unlock()

	userID, _ := uuid.Parse(c.Subject)
	m.logger.Info().Str("user_id", userID.String()).Msg("signed out")
	m.notify(Change{Kind: SignedOut, Session: Session{ID: c.ID, UserID: userID, Email: c.Email, ExpiresAt: c.ExpiresAt.Time}})
	return nil
}

// CurrentSession resolves a token to its session. Missing, invalid, expired
// and revoked tokens all yield model.ErrUnauthenticated.
func (m *Manager) CurrentSession(ctx context.Context, token string) (*Session, error) {
	c, err := m.parse(token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	_, revoked := m.revoked[c.ID]
	m.mu.Unlock()
	if revoked {
		return nil, model.ErrUnauthenticated
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, model.ErrUnauthenticated
	}

	role, err := m.resolveRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        c.ID,
		Token:     token,
		UserID:    userID,
		Email:     c.Email,
		Role:      role,
		ExpiresAt: c.ExpiresAt.Time.UTC(),
	}, nil
}

// resolveRole reads the profile of a user. A missing profile yields an empty
// role, which passes no role check.
func (m *Manager) resolveRole(ctx context.Context, userID uuid.UUID) (model.Role, error) {
	profile, err := m.profiles.GetByID(ctx, userID)
	if err != nil {
		m.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get profile")
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		m.logger.Warn().Str("user_id", userID.String()).Msg("profile not found")
		return "", nil
	}
	return profile.Role, nil
}

func (m *Manager) parse(token string) (*claims, error) {
	if token == "" {
		return nil, model.ErrUnauthenticated
	}

	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		m.logger.Debug().Err(err).Msg("rejected session token")
		return nil, model.ErrUnauthenticated
	}
	return c, nil
}

func (m *Manager) pruneLocked() {
	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
}

// Subscription is a registered session-change listener.
type Subscription struct {
	id   uint64
	m    *Manager
	once sync.Once
}

// Unsubscribe stops delivery. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.m.mu.Lock()
		delete(s.m.listeners, s.id)
		s.m.mu.Unlock()
	})
}

// OnSessionChange registers fn to be called after every sign-in and
// sign-out. fn runs synchronously on the signing goroutine.
func (m *Manager) OnSessionChange(fn func(Change)) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.listeners[m.nextID] = fn
	return &Subscription{id: m.nextID, m: m}
}

func (m *Manager) notify(change Change) {
	m.mu.Lock()
	fns := make([]func(Change), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
