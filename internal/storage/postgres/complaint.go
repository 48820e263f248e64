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

type ComplaintRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewComplaintRepo(pool *pgxpool.Pool, logger *slog.Logger) *ComplaintRepo {
	return &ComplaintRepo{pool: pool, logger: logger}
}

const complaintColumns = `
	id,
	complaint_id,
	user_id,
	name,
	mobile,
	category,
	description,
	location_lat,
	location_lng,
	location_address,
	photo_url,
	status,
	remarks,
	created_at,
	updated_at`

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(
		&c.ID,
		&c.ComplaintID,
		&c.OwnerID,
		&c.Name,
		&c.Mobile,
		&c.Category,
		&c.Description,
		&c.Location.Lat,
		&c.Location.Lng,
		&c.Location.Address,
		&c.PhotoURL,
		&c.Status,
		&c.Remarks,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *ComplaintRepo) Create(ctx context.Context, c *domain.Complaint) error {
	const op = "postgres.Complaint.Create"

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	if c.Status == "" {
		c.Status = domain.StatusPending
	}

	const query = `
		INSERT INTO complaints (` + complaintColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := p.pool.Exec(ctx, query,
		c.ID,
		c.ComplaintID,
		c.OwnerID,
		c.Name,
		c.Mobile,
		c.Category,
		c.Description,
		c.Location.Lat,
		c.Location.Lng,
		c.Location.Address,
		c.PhotoURL,
		c.Status,
		c.Remarks,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.String("complaint_id", c.ComplaintID),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *ComplaintRepo) GetByComplaintID(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	const op = "postgres.Complaint.GetByComplaintID"

	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE complaint_id = $1`

	c, err := scanComplaint(p.pool.QueryRow(ctx, query, complaintID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed",
			slog.String("op", op),
			slog.String("complaint_id", complaintID),
			slog.Any("error", err),
		)
		return nil, e.WrapError(ctx, op, err)
	}
	return c, nil
}

func (p *ComplaintRepo) List(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	const op = "postgres.Complaint.List"

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	const query = `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
	`
	rows, err := p.pool.Query(ctx, query, status)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	complaints := make([]*domain.Complaint, 0, 16)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return complaints, nil
}

// UpdateStatus writes status, remarks and updated_at in one statement. There
// is no version check: concurrent admin edits resolve as last write wins.
func (p *ComplaintRepo) UpdateStatus(ctx context.Context, complaintID string, upd domain.StatusUpdate) (*domain.Complaint, error) {
	const op = "postgres.Complaint.UpdateStatus"

	const query = `
		UPDATE complaints
		SET status     = $2,
			remarks    = $3,
			updated_at = $4
		WHERE complaint_id = $1
		RETURNING ` + complaintColumns

	c, err := scanComplaint(p.pool.QueryRow(ctx, query, complaintID, upd.Status, upd.Remarks, upd.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed",
			slog.String("op", op),
			slog.String("complaint_id", complaintID),
			slog.Any("error", err),
		)
		return nil, e.WrapError(ctx, op, err)
	}
	return c, nil
}

func (p *ComplaintRepo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	const op = "postgres.Complaint.CountByStatus"

	const query = `SELECT status, COUNT(*) FROM complaints GROUP BY status`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for rows.Next() {
		var (
			status domain.Status
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return counts, nil
}
