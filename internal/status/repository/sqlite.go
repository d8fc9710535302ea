package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brandon-urgd/stitch/internal/status/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("job not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Create заводит запись о новой конвертации.
func (r *Repository) Create(ctx context.Context, requestID string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO jobs (request_id, status, timestamp)
        VALUES (?, ?, ?)
    `, requestID, models.StatusUploading, now())
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Get возвращает запись по request_id.
func (r *Repository) Get(ctx context.Context, requestID string) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT request_id, status, timestamp, pes_key, stitch_count, quality, error
        FROM jobs
        WHERE request_id = ?
    `, requestID)

	var j models.Job
	if err := row.Scan(&j.RequestID, &j.Status, &j.Timestamp, &j.PESKey, &j.StitchCount, &j.Quality, &j.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// SetStatus обновляет только статус (uploading → converting).
func (r *Repository) SetStatus(ctx context.Context, requestID, status string) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE jobs SET status = ?, timestamp = ? WHERE request_id = ?
    `, status, now(), requestID)
	return err
}

// MarkConverted записывает результат успешной конвертации.
func (r *Repository) MarkConverted(ctx context.Context, requestID, pesKey string, stitchCount int, quality string) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE jobs
        SET status = ?, timestamp = ?, pes_key = ?, stitch_count = ?, quality = ?
        WHERE request_id = ?
    `, models.StatusConverted, now(), pesKey, stitchCount, quality, requestID)
	return err
}

// MarkFailed фиксирует ошибку конвертации.
func (r *Repository) MarkFailed(ctx context.Context, requestID, errMsg string) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE jobs SET status = ?, timestamp = ?, error = ? WHERE request_id = ?
    `, models.StatusFailed, now(), errMsg, requestID)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
