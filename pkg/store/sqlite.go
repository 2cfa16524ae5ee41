package store

import (
	"context"
	"database/sql"
	"errors"

	"homereel/pkg/db"
	"homereel/pkg/model"
)

// Store defines the repository interface.
// It composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	GenerationStore
	StateStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Generations ---

func (s *SQLiteStore) SaveGeneration(ctx context.Context, rec *model.GenerationRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations
		 (id, property_title, style, provider, photo_count, scene_count, range_min, range_max, inversion_ratio, resequenced, range_violation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PropertyTitle, rec.Style, rec.Provider,
		rec.PhotoCount, rec.SceneCount, rec.RangeMin, rec.RangeMax,
		rec.InversionRatio, rec.Resequenced, rec.RangeViolation, rec.CreatedAt)
	return err
}

func (s *SQLiteStore) GetGeneration(ctx context.Context, id string) (*model.GenerationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, property_title, style, provider, photo_count, scene_count, range_min, range_max, inversion_ratio, resequenced, range_violation, created_at
		 FROM generations WHERE id = ?`, id)

	rec, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecentGenerations(ctx context.Context, limit int) ([]*model.GenerationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, property_title, style, provider, photo_count, scene_count, range_min, range_max, inversion_ratio, resequenced, range_violation, created_at
		 FROM generations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*model.GenerationRecord
	for rows.Next() {
		rec, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*model.GenerationRecord, error) {
	var rec model.GenerationRecord
	err := row.Scan(
		&rec.ID, &rec.PropertyTitle, &rec.Style, &rec.Provider,
		&rec.PhotoCount, &rec.SceneCount, &rec.RangeMin, &rec.RangeMax,
		&rec.InversionRatio, &rec.Resequenced, &rec.RangeViolation, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, val)
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
