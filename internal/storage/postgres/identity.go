package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdentityRepo backs the users and profiles relations.
type IdentityRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIdentityRepo(pool *pgxpool.Pool, logger *slog.Logger) *IdentityRepo {
	return &IdentityRepo{pool: pool, logger: logger}
}

// Register inserts the user and its profile in a single transaction.
func (p *IdentityRepo) Register(ctx context.Context, u *domain.User, role domain.Role) error {
	const op = "postgres.Identity.Register"

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		p.logger.Error("begin tx failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUser = `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insertUser, u.ID, u.Email, u.PasswordHash, u.CreatedAt); err != nil {
		p.logger.Warn("insert user failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	const insertProfile = `
		INSERT INTO profiles (id, role, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertProfile, u.ID, role, u.CreatedAt); err != nil {
		p.logger.Error("insert profile failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.Error("commit failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *IdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgres.Identity.GetByEmail"

	const query = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	var u domain.User
	err := p.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return &u, nil
}

func (p *IdentityRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgres.Identity.GetByID"

	const query = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`

	var u domain.User
	err := p.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return &u, nil
}

// RoleOf returns e.ErrNotFound when the principal has no profile row.
func (p *IdentityRepo) RoleOf(ctx context.Context, id uuid.UUID) (domain.Role, error) {
	const op = "postgres.Identity.RoleOf"

	const query = `SELECT role FROM profiles WHERE id = $1`

	var role domain.Role
	if err := p.pool.QueryRow(ctx, query, id).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return "", e.WrapError(ctx, op, err)
	}
	return role, nil
}
