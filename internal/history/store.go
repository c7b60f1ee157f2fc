package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"presser/internal/config"
)

// Store keeps a permanent record of tracker submissions backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Submission is one recorded upload, dry-run or real.
type Submission struct {
	ID          int64
	SourceURL   string
	AlbumPath   string
	TorrentPath string
	TorrentID   int64
	GroupID     int64
	DryRun      bool
	SubmittedAt time.Time
}

// Open initializes or connects to the history database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a submission row and returns its identifier.
func (s *Store) Record(ctx context.Context, sub Submission) (int64, error) {
	timestamp := sub.SubmittedAt
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (
            source_url, album_path, torrent_path, torrent_id, group_id, dry_run, submitted_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.SourceURL,
		sub.AlbumPath,
		sub.TorrentPath,
		sub.TorrentID,
		sub.GroupID,
		boolToInt(sub.DryRun),
		timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the most recent submissions, newest first, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, source_url, album_path, torrent_path, torrent_id, group_id, dry_run, submitted_at
         FROM submissions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

// FindByAlbum returns every recorded submission for the given album folder,
// newest first. Used to warn before re-uploading an album that already went
// out.
func (s *Store) FindByAlbum(ctx context.Context, albumPath string) ([]Submission, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, source_url, album_path, torrent_path, torrent_id, group_id, dry_run, submitted_at
         FROM submissions WHERE album_path = ? ORDER BY id DESC`,
		albumPath,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions by album: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func scanSubmissions(rows *sql.Rows) ([]Submission, error) {
	var subs []Submission
	for rows.Next() {
		var sub Submission
		var dryRun int
		var submittedAt string
		if err := rows.Scan(
			&sub.ID, &sub.SourceURL, &sub.AlbumPath, &sub.TorrentPath,
			&sub.TorrentID, &sub.GroupID, &dryRun, &submittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.DryRun = dryRun != 0
		parsed, err := time.Parse(time.RFC3339Nano, submittedAt)
		if err != nil {
			return nil, fmt.Errorf("parse submitted_at %q: %w", submittedAt, err)
		}
		sub.SubmittedAt = parsed
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
