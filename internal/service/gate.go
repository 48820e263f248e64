package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"
)

// ProfileGate requires a signed-in principal to submit and an admin profile
// to manage complaints.
type ProfileGate struct {
	profiles ProfileRepository
	logger   *slog.Logger
}

func NewProfileGate(profiles ProfileRepository, logger *slog.Logger) *ProfileGate {
	return &ProfileGate{profiles: profiles, logger: logger}
}

func (g *ProfileGate) CanSubmit(_ context.Context, p *domain.Principal) error {
	if p == nil {
		return e.Wrap("gate.CanSubmit", e.ErrUnauthorized)
	}
	return nil
}

func (g *ProfileGate) RequireAdmin(ctx context.Context, p *domain.Principal) error {
	const op = "gate.RequireAdmin"

	if p == nil {
		return e.Wrap(op, e.ErrUnauthorized)
	}
	role, err := g.profiles.RoleOf(ctx, p.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			g.logger.Warn("principal has no profile", slog.String("user_id", p.ID.String()))
			return fmt.Errorf("%s: no profile: %w", op, e.ErrForbidden)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if role != domain.RoleAdmin {
		return fmt.Errorf("%s: role %s: %w", op, role, e.ErrForbidden)
	}
	return nil
}

// OpenGate lets everyone through. Used with the single-user local store.
type OpenGate struct{}

func (OpenGate) CanSubmit(context.Context, *domain.Principal) error    { return nil }
func (OpenGate) RequireAdmin(context.Context, *domain.Principal) error { return nil }
