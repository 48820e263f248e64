package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"
	"villagevoice/pkg/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthOptions struct {
	Secret      string
	AccessTTL   time.Duration
	SessionTTL  time.Duration
	AdminEmails []string
}

type accessClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	users    UserRepository
	profiles ProfileRepository
	sessions SessionStore
	logger   *slog.Logger

	secret      []byte
	accessTTL   time.Duration
	sessionTTL  time.Duration
	adminEmails map[string]struct{}
	now         func() time.Time
}

func NewAuthService(users UserRepository, profiles ProfileRepository, sessions SessionStore, logger *slog.Logger, opts AuthOptions) AuthService {
	return newAuthService(users, profiles, sessions, logger, opts, time.Now)
}

func newAuthService(users UserRepository, profiles ProfileRepository, sessions SessionStore, logger *slog.Logger, opts AuthOptions, now func() time.Time) *authService {
	admins := make(map[string]struct{}, len(opts.AdminEmails))
	for _, em := range opts.AdminEmails {
		admins[normalizeEmail(em)] = struct{}{}
	}
	return &authService{
		users:       users,
		profiles:    profiles,
		sessions:    sessions,
		logger:      logger,
		secret:      []byte(opts.Secret),
		accessTTL:   opts.AccessTTL,
		sessionTTL:  opts.SessionTTL,
		adminEmails: admins,
		now:         now,
	}
}

func (s *authService) SignUp(ctx context.Context, cred domain.Credentials) (*domain.AuthSession, error) {
	const op = "service.Auth.SignUp"

	cred.Email = normalizeEmail(cred.Email)
	if err := validator.Validate(cred); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, e.ErrInternal)
	}

	role := domain.RoleMember
	if _, ok := s.adminEmails[cred.Email]; ok {
		role = domain.RoleAdmin
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        cred.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Register(ctx, u, role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("user registered", slog.String("user_id", u.ID.String()), slog.String("role", string(role)))
	return s.startSession(ctx, u.ID, u.Email)
}

func (s *authService) SignIn(ctx context.Context, cred domain.Credentials) (*domain.AuthSession, error) {
	const op = "service.Auth.SignIn"

	cred.Email = normalizeEmail(cred.Email)
	if err := validator.Validate(cred); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.users.GetByEmail(ctx, cred.Email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%s: invalid credentials: %w", op, e.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cred.Password)); err != nil {
		return nil, fmt.Errorf("%s: invalid credentials: %w", op, e.ErrUnauthorized)
	}

	return s.startSession(ctx, u.ID, u.Email)
}

// Refresh rotates the refresh token. The old one stops working.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthSession, error) {
	const op = "service.Auth.Refresh"

	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%s: %w", op, e.NewValidationError("refresh_token"))
	}

	sess, err := s.sessions.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.startSession(ctx, sess.UserID, sess.Email)
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	const op = "service.Auth.SignOut"

	sess, err := s.sessions.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Info("signed out", slog.String("user_id", sess.UserID.String()))
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error) {
	const op = "service.Auth.Authenticate"

	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%s: bad subject: %w", op, e.ErrUnauthorized)
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%s: session revoked: %w", op, e.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("%s: session mismatch: %w", op, e.ErrUnauthorized)
	}

	return &domain.Principal{ID: userID, Email: claims.Email}, nil
}

func (s *authService) Me(ctx context.Context, p *domain.Principal) (*domain.Me, error) {
	const op = "service.Auth.Me"

	if p == nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	role, err := s.profiles.RoleOf(ctx, p.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%s: no profile: %w", op, e.ErrForbidden)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &domain.Me{Principal: *p, Role: role}, nil
}

func (s *authService) startSession(ctx context.Context, userID uuid.UUID, email string) (*domain.AuthSession, error) {
	const op = "service.Auth.startSession"

	refresh, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInternal)
	}
	now := s.now().UTC()
	sess := domain.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Email:        email,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	expiresAt := now.Add(s.accessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		SessionID: sess.ID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: sign: %w", op, e.ErrInternal)
	}

	return &domain.AuthSession{
		AccessToken:  signed,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Principal:    domain.Principal{ID: userID, Email: email},
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
