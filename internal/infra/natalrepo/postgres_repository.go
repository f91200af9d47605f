package natalrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/astrotune/backend/internal/domain/natal"
)

// PostgresRepository implements natal.Repository using pgx.
//
// Expected schema:
//
//	CREATE TABLE birth_records (
//	    id         UUID PRIMARY KEY,
//	    name       TEXT NOT NULL,
//	    birth_time TIMESTAMPTZ NOT NULL,
//	    latitude   DOUBLE PRECISION NOT NULL,
//	    longitude  DOUBLE PRECISION NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new birth record.
func (r *PostgresRepository) Insert(ctx context.Context, record natal.BirthRecord) (natal.BirthRecord, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO birth_records (id, name, birth_time, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.Name, record.BirthTime, record.Latitude, record.Longitude, record.CreatedAt)
	if err != nil {
		return natal.BirthRecord{}, err
	}
	return record, nil
}

// FindByID fetches one birth record.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (natal.BirthRecord, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, birth_time, latitude, longitude, created_at
		FROM birth_records
		WHERE id = $1
	`, id)

	var record natal.BirthRecord
	err := row.Scan(&record.ID, &record.Name, &record.BirthTime, &record.Latitude, &record.Longitude, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return natal.BirthRecord{}, false, nil
	}
	if err != nil {
		return natal.BirthRecord{}, false, err
	}
	return record, true, nil
}

var _ natal.Repository = (*PostgresRepository)(nil)
