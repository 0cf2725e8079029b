// Package sqlite implements claim persistence over a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/verdanta/greenflow/internal/claims"
)

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	session_id   TEXT NOT NULL DEFAULT '',
	graph        TEXT NOT NULL DEFAULT '',
	progress     INTEGER NOT NULL DEFAULT 0,
	final_weight REAL NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_user ON claims(user_id);

CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	claim_id     TEXT NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
	filename     TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size         INTEGER NOT NULL,
	blob_key     TEXT NOT NULL,
	uploaded_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_claim ON documents(claim_id);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements claims.Store over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the claims database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) CreateClaim(ctx context.Context, c *claims.Claim) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO claims (id, user_id, title, description, status, session_id, graph, progress, final_weight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.Description, string(c.Status),
		c.SessionID, c.Graph, c.Progress, c.FinalWeight,
		toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (s *Store) GetClaim(ctx context.Context, id string) (*claims.Claim, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, status, session_id, graph, progress, final_weight, created_at, updated_at
		FROM claims WHERE id = ?`, id)
	return scanClaim(row)
}

func (s *Store) UpdateClaim(ctx context.Context, c *claims.Claim) error {
	res, err := s.sqlDB.ExecContext(ctx, `
		UPDATE claims
		SET title = ?, description = ?, status = ?, session_id = ?, graph = ?, progress = ?, final_weight = ?, updated_at = ?
		WHERE id = ?`,
		c.Title, c.Description, string(c.Status), c.SessionID, c.Graph,
		c.Progress, c.FinalWeight, toMillis(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return claims.ErrNotFound
	}
	return nil
}

func (s *Store) ListClaims(ctx context.Context, userID string) ([]*claims.Claim, error) {
	query := `
		SELECT id, user_id, title, description, status, session_id, graph, progress, final_weight, created_at, updated_at
		FROM claims`
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var out []*claims.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteClaim(ctx context.Context, id string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE claim_id = ?`, id); err != nil {
		return fmt.Errorf("delete claim documents: %w", err)
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return claims.ErrNotFound
	}
	return nil
}

func (s *Store) AddDocument(ctx context.Context, d *claims.Document) error {
	if _, err := s.GetClaim(ctx, d.ClaimID); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO documents (id, claim_id, filename, content_type, size, blob_key, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ClaimID, d.Filename, d.ContentType, d.Size, d.BlobKey, toMillis(d.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Store) ListDocuments(ctx context.Context, claimID string) ([]*claims.Document, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, claim_id, filename, content_type, size, blob_key, uploaded_at
		FROM documents WHERE claim_id = ? ORDER BY uploaded_at`, claimID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*claims.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDocument(ctx context.Context, id string) (*claims.Document, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
		SELECT id, claim_id, filename, content_type, size, blob_key, uploaded_at
		FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (*claims.Claim, error) {
	var (
		c                    claims.Claim
		status               string
		createdAt, updatedAt int64
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &status,
		&c.SessionID, &c.Graph, &c.Progress, &c.FinalWeight, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, claims.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan claim: %w", err)
	}
	c.Status = claims.Status(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func scanDocument(row rowScanner) (*claims.Document, error) {
	var (
		d          claims.Document
		uploadedAt int64
	)
	err := row.Scan(&d.ID, &d.ClaimID, &d.Filename, &d.ContentType, &d.Size, &d.BlobKey, &uploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, claims.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	d.UploadedAt = fromMillis(uploadedAt)
	return &d, nil
}

var _ claims.Store = (*Store)(nil)
