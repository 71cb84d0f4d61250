package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RenderRecord is one row in the renders table: a single meme or clip
// that was produced, with enough context to audit or replay it.
type RenderRecord struct {
	ID            int64     `json:"id"`
	CorrelationID string    `json:"correlation_id"`
	Kind          string    `json:"kind"` // "meme", "remix", "smart", "karaoke", "gen"
	FileName      string    `json:"file"`
	TopText       string    `json:"top_text,omitempty"`
	BottomText    string    `json:"bottom_text,omitempty"`
	Prompt        string    `json:"prompt,omitempty"`
	DurationMS    int       `json:"duration_ms"`
	Status        string    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Render kinds.
const (
	KindMeme    = "meme"
	KindRemix   = "remix"
	KindSmart   = "smart"
	KindKaraoke = "karaoke"
	KindGen     = "gen"
)

// Repository provides typed access to the renders table.
//
// Thread Safety: Repository is safe for concurrent use; database/sql
// handles connection serialization.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open database connection.
func NewRepository(db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("store: database connection is required")
	}
	return &Repository{db: db}, nil
}

// InsertRender records a completed (or failed) render. The record's ID
// and CreatedAt are populated on return.
func (r *Repository) InsertRender(ctx context.Context, record *RenderRecord) error {
	if record == nil {
		return fmt.Errorf("store: record cannot be nil")
	}
	if record.Status == "" {
		record.Status = "success"
	}
	record.CreatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO renders
			(correlation_id, kind, file_name, top_text, bottom_text, prompt,
			 duration_ms, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.CorrelationID, record.Kind, record.FileName,
		record.TopText, record.BottomText, record.Prompt,
		record.DurationMS, record.Status, record.ErrorMessage,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: failed to insert render record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: failed to read inserted id: %w", err)
	}
	record.ID = id
	return nil
}

// ListRecent returns the most recent renders, newest first. limit is
// clamped to [1, 500].
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]RenderRecord, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, correlation_id, kind, file_name, top_text, bottom_text,
		       prompt, duration_ms, status, error_message, created_at
		FROM renders
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query renders: %w", err)
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		if err := rows.Scan(
			&rec.ID, &rec.CorrelationID, &rec.Kind, &rec.FileName,
			&rec.TopText, &rec.BottomText, &rec.Prompt,
			&rec.DurationMS, &rec.Status, &rec.ErrorMessage, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: failed to scan render record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: render row iteration failed: %w", err)
	}
	return records, nil
}

// CountByKind returns how many renders of each kind exist.
func (r *Repository) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM renders GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("store: failed to count renders: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("store: failed to scan count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
