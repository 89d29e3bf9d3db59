package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Open-Coding-Society/optivize-backend/models"
)

// RecordStore persists prediction records through a pgx pool. Handlers
// read the same table through gorm; the engine's hot path writes and
// aggregates through raw SQL here.
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Init creates the prediction_records table if it does not exist yet.
// CRUD tables are migrated by gorm in cmd/api.
func (s *RecordStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS prediction_records (
			id BIGSERIAL PRIMARY KEY,
			item_text TEXT NOT NULL,
			seasonality TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			marketing DOUBLE PRECISION NOT NULL,
			distribution_channels DOUBLE PRECISION NOT NULL,
			category TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create prediction_records: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_prediction_records_category_success
		ON prediction_records (category, success)
	`)
	if err != nil {
		return fmt.Errorf("index prediction_records: %w", err)
	}
	return nil
}

// Insert stores one record and fills in its generated id and timestamp.
func (s *RecordStore) Insert(ctx context.Context, rec *models.PredictionRecord) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO prediction_records
			(item_text, seasonality, price, marketing, distribution_channels, category, success, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, rec.ItemText, rec.Seasonality, rec.Price, rec.Marketing,
		rec.DistributionChannels, rec.Category, rec.Success, rec.Score)

	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("insert prediction record: %w", err)
	}
	return nil
}

// RecordCursor marks a position in the (created_at DESC, id DESC)
// history ordering. The id component keeps records that share a
// timestamp from being skipped across page boundaries.
type RecordCursor struct {
	CreatedAt time.Time
	ID        uint
}

// History returns records newest first. A non-nil cursor restricts to
// records strictly before that position; limit 0 means no limit.
func (s *RecordStore) History(ctx context.Context, limit int, cursor *RecordCursor) ([]models.PredictionRecord, error) {
	query := `
		SELECT id, item_text, seasonality, price, marketing, distribution_channels,
		       category, success, score, created_at
		FROM prediction_records`
	args := []interface{}{}
	if cursor != nil {
		query += " WHERE (created_at, id) < ($1, $2)"
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		var r models.PredictionRecord
		if err := rows.Scan(&r.ID, &r.ItemText, &r.Seasonality, &r.Price,
			&r.Marketing, &r.DistributionChannels, &r.Category,
			&r.Success, &r.Score, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate history rows: %w", rows.Err())
	}
	return records, nil
}

// SuccessfulPricesForCategory returns the prices of successful records
// in a category, for the aggregator.
func (s *RecordStore) SuccessfulPricesForCategory(ctx context.Context, category string) ([]float64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT price FROM prediction_records
		WHERE category = $1 AND success
	`, category)
	if err != nil {
		return nil, fmt.Errorf("query category prices: %w", err)
	}
	defer rows.Close()
	return scanFloats(rows)
}

// SuccessfulMarketingLevels returns the marketing levels of all
// successful records.
func (s *RecordStore) SuccessfulMarketingLevels(ctx context.Context) ([]float64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT marketing FROM prediction_records
		WHERE success
	`)
	if err != nil {
		return nil, fmt.Errorf("query marketing levels: %w", err)
	}
	defer rows.Close()
	return scanFloats(rows)
}

type floatRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFloats(rows floatRows) ([]float64, error) {
	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, v)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rows: %w", rows.Err())
	}
	return values, nil
}
