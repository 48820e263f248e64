package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"villagevoice/internal/domain"
	mock_service "villagevoice/internal/service/mocks"
	"villagevoice/pkg/e"
)

type memSessions struct {
	mu   sync.Mutex
	byID map[string]domain.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]domain.Session{}}
}

func (m *memSessions) Save(_ context.Context, s domain.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Consume(_ context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.byID {
		if s.RefreshToken == token {
			delete(m.byID, id)
			return &s, nil
		}
	}
	return nil, e.ErrNotFound
}

func newTestAuthService(t *testing.T, admins ...string) (*authService, *mock_service.MockUserRepository, *mock_service.MockProfileRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mock_service.NewMockUserRepository(ctrl)
	profiles := mock_service.NewMockProfileRepository(ctrl)
	svc := newAuthService(users, profiles, newMemSessions(), testLogger(), AuthOptions{
		Secret:      "test-secret-0123456789",
		AccessTTL:   15 * time.Minute,
		SessionTTL:  time.Hour,
		AdminEmails: admins,
	}, time.Now)
	return svc, users, profiles
}

func TestSignUp_AuthenticateSignOut(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	users.EXPECT().Register(gomock.Any(), gomock.Any(), domain.RoleMember).
		DoAndReturn(func(_ context.Context, u *domain.User, _ domain.Role) error {
			if u.Email != "asha@example.com" {
				t.Errorf("email not normalized: %q", u.Email)
			}
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) != nil {
				t.Errorf("password not hashed with bcrypt")
			}
			return nil
		})

	sess, err := svc.SignUp(context.Background(), domain.Credentials{Email: " Asha@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	p, err := svc.Authenticate(context.Background(), sess.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.ID != sess.Principal.ID || p.Email != "asha@example.com" {
		t.Fatalf("unexpected principal %+v", p)
	}

	if err := svc.SignOut(context.Background(), sess.RefreshToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), sess.AccessToken); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected revoked token, got %v", err)
	}
	// signing out twice is harmless
	if err := svc.SignOut(context.Background(), sess.RefreshToken); err != nil {
		t.Fatalf("second SignOut: %v", err)
	}
}

func TestSignUp_AdminEmail(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t, "Officer@Panchayat.gov.in")
	users.EXPECT().Register(gomock.Any(), gomock.Any(), domain.RoleAdmin).Return(nil)

	if _, err := svc.SignUp(context.Background(), domain.Credentials{Email: "officer@panchayat.gov.in", Password: "secret1"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
}

func TestSignUp_Invalid(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	users.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.SignUp(context.Background(), domain.Credentials{Email: "not-an-email", Password: "123"})
	var verr *e.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two invalid fields, got %v", err)
	}
}

func TestSignUp_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	users.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(e.Wrap("postgres.Identity.Register", e.ErrConflict))

	_, err := svc.SignUp(context.Background(), domain.Credentials{Email: "a@example.com", Password: "secret1"})
	if !errors.Is(err, e.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &domain.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: string(hash)}

	svc, users, _ := newTestAuthService(t)
	users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(u, nil).Times(2)
	users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, e.ErrNotFound)

	sess, err := svc.SignIn(context.Background(), domain.Credentials{Email: "A@example.com", Password: "secret1"})
	if err != nil || sess.Principal.ID != u.ID {
		t.Fatalf("unexpected sign in result %v, %v", sess, err)
	}
	if _, err := svc.SignIn(context.Background(), domain.Credentials{Email: "a@example.com", Password: "wrong-password"}); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad password, got %v", err)
	}
	if _, err := svc.SignIn(context.Background(), domain.Credentials{Email: "ghost@example.com", Password: "secret1"}); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	users.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	first, err := svc.SignUp(context.Background(), domain.Credentials{Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("old refresh token still valid: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), first.AccessToken); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("old access token still valid: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), second.AccessToken); err != nil {
		t.Fatalf("new access token rejected: %v", err)
	}
}

func TestRefresh_ConcurrentReplayWinsOnce(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	users.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	first, err := svc.SignUp(context.Background(), domain.Credentials{Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	const callers = 8
	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(context.Background(), first.RefreshToken)
			switch {
			case err == nil:
				wins.Add(1)
			case !errors.Is(err, e.ErrUnauthorized):
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("refresh token redeemed %d times", wins.Load())
	}
}

func TestAuthenticate_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService(t)
	other, users, _ := newTestAuthService(t)
	users.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	sess, err := other.SignUp(context.Background(), domain.Credentials{Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	// same secret, but the session lives in another store
	if _, err := svc.Authenticate(context.Background(), sess.AccessToken); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMe(t *testing.T) {
	t.Parallel()

	svc, _, profiles := newTestAuthService(t)
	p := &domain.Principal{ID: uuid.New(), Email: "a@example.com"}
	orphan := &domain.Principal{ID: uuid.New()}

	profiles.EXPECT().RoleOf(gomock.Any(), p.ID).Return(domain.RoleAdmin, nil)
	profiles.EXPECT().RoleOf(gomock.Any(), orphan.ID).Return(domain.Role(""), e.ErrNotFound)

	me, err := svc.Me(context.Background(), p)
	if err != nil || me.Role != domain.RoleAdmin || me.Email != p.Email {
		t.Fatalf("unexpected me %+v, %v", me, err)
	}
	if _, err := svc.Me(context.Background(), orphan); !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
