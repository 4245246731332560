package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

// PredictionRepository manages prediction audit persistence.
type PredictionRepository interface {
	Create(ctx context.Context, rec *domain.PredictionRecord) error
	AttachRouting(ctx context.Context, externalKey, backend, ticketID, ticketNumber string) error
	GetByExternalKey(ctx context.Context, key string) (*domain.PredictionRecord, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.PredictionRecord, error)
}

type predictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository builds the repository.
func NewPredictionRepository(pool *pgxpool.Pool) PredictionRepository {
	return &predictionRepository{pool: pool}
}

func (r *predictionRepository) Create(ctx context.Context, rec *domain.PredictionRecord) error {
	const query = `
        INSERT INTO predictions (external_key, description, normalized_text, department, priority, cache_hit)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rec.ExternalKey,
		rec.Description,
		rec.NormalizedText,
		rec.Department,
		rec.Priority,
		rec.CacheHit,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *predictionRepository) AttachRouting(ctx context.Context, externalKey, backend, ticketID, ticketNumber string) error {
	const query = `
        UPDATE predictions SET backend=$1, remote_ticket_id=$2, remote_ticket_number=$3, updated_at=NOW()
        WHERE external_key=$4`
	cmd, err := r.pool.Exec(ctx, query, backend, ticketID, ticketNumber, externalKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *predictionRepository) GetByExternalKey(ctx context.Context, key string) (*domain.PredictionRecord, error) {
	const query = `
        SELECT id, external_key, description, normalized_text, department, priority, cache_hit,
               backend, remote_ticket_id, remote_ticket_number, created_at, updated_at
        FROM predictions WHERE external_key=$1`
	var rec domain.PredictionRecord
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&rec.ID,
		&rec.ExternalKey,
		&rec.Description,
		&rec.NormalizedText,
		&rec.Department,
		&rec.Priority,
		&rec.CacheHit,
		&rec.Backend,
		&rec.RemoteTicketID,
		&rec.RemoteTicketNumber,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *predictionRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.PredictionRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, external_key, description, normalized_text, department, priority, cache_hit,
               backend, remote_ticket_id, remote_ticket_number, created_at, updated_at
        FROM predictions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PredictionRecord
	for rows.Next() {
		var rec domain.PredictionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ExternalKey,
			&rec.Description,
			&rec.NormalizedText,
			&rec.Department,
			&rec.Priority,
			&rec.CacheHit,
			&rec.Backend,
			&rec.RemoteTicketID,
			&rec.RemoteTicketNumber,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
