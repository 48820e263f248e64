package service

import (
	"context"
	"io"
	"time"

	"villagevoice/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type ComplaintService interface {
	Submit(ctx context.Context, p *domain.Principal, req domain.CreateComplaintRequest) (*domain.Complaint, error)
	Track(ctx context.Context, complaintID string) (*domain.Complaint, error)
	List(ctx context.Context, p *domain.Principal, filter domain.ComplaintFilter) ([]*domain.Complaint, error)
	Detail(ctx context.Context, p *domain.Principal, complaintID string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, p *domain.Principal, complaintID string, req domain.UpdateStatusRequest) (*domain.Complaint, error)
	Stats(ctx context.Context) (domain.ComplaintStats, error)
}

type LocationService interface {
	Reverse(ctx context.Context, req domain.PointRequest) (domain.Location, error)
	FromDevice(ctx context.Context, fix domain.DeviceFix) (domain.Location, error)
	DeviceOptions() domain.DeviceOptions
}

type AuthService interface {
	SignUp(ctx context.Context, cred domain.Credentials) (*domain.AuthSession, error)
	SignIn(ctx context.Context, cred domain.Credentials) (*domain.AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error)
	Me(ctx context.Context, p *domain.Principal) (*domain.Me, error)
}

type ComplaintStore interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByComplaintID(ctx context.Context, complaintID string) (*domain.Complaint, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error)
	UpdateStatus(ctx context.Context, complaintID string, upd domain.StatusUpdate) (*domain.Complaint, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
}

type UserRepository interface {
	Register(ctx context.Context, u *domain.User, role domain.Role) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type ProfileRepository interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

// Consume removes the session a refresh token points at and returns it. Only
// one caller can consume a given token.
type SessionStore interface {
	Save(ctx context.Context, s domain.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Consume(ctx context.Context, refreshToken string) (*domain.Session, error)
}

// ComplaintCache returns (nil, nil) on a miss. Readers fill it with
// SetIfAbsent so that a slow read never replaces a record written by Set.
type ComplaintCache interface {
	Get(ctx context.Context, complaintID string) (*domain.Complaint, error)
	Set(ctx context.Context, c *domain.Complaint, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, c *domain.Complaint, ttl time.Duration) error
	Invalidate(ctx context.Context, complaintID string) error
}

// SelectionStore keeps the last location picked for a not yet submitted form.
type SelectionStore interface {
	Put(ctx context.Context, draftID string, loc domain.Location, ttl time.Duration) error
	Get(ctx context.Context, draftID string) (*domain.Location, error)
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

type PhotoStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// RoleGate decides who may submit and who may administer complaints.
type RoleGate interface {
	CanSubmit(ctx context.Context, p *domain.Principal) error
	RequireAdmin(ctx context.Context, p *domain.Principal) error
}

type Service struct {
	Complaints ComplaintService
	Locations  LocationService
	// nil when running against the local store
	Auth AuthService
}

func NewService(
	complaints ComplaintService,
	locations LocationService,
	auth AuthService,
) *Service {
	return &Service{
		Complaints: complaints,
		Locations:  locations,
		Auth:       auth,
	}
}
