package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	logx "ummabot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

// Open initializes the sqlite store, creating the database file and schema
// when missing.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) listUsers(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListUsers(ctx context.Context) ([]int64, error) {
	return s.listUsers(ctx, `SELECT user_id FROM users ORDER BY user_id`)
}

func (s *sqliteStore) ListSubscribed(ctx context.Context) ([]int64, error) {
	return s.listUsers(ctx, `SELECT user_id FROM users WHERE mailing = 1 ORDER BY user_id`)
}

func (s *sqliteStore) IsKnown(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE user_id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqliteStore) AddUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(user_id) VALUES(?) ON CONFLICT(user_id) DO NOTHING`, userID)
	return err
}

func (s *sqliteStore) MailingStatus(ctx context.Context, userID int64) (bool, error) {
	var mailing int
	err := s.db.QueryRowContext(ctx, `SELECT mailing FROM users WHERE user_id = ?`, userID).Scan(&mailing)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return mailing != 0, nil
}

func (s *sqliteStore) ToggleMailing(ctx context.Context, userID int64) (bool, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET mailing = NOT mailing WHERE user_id = ?`, userID)
	if err != nil {
		return false, err
	}
	return s.MailingStatus(ctx, userID)
}

func (s *sqliteStore) RecordPostedDua(ctx context.Context, link string) error {
	if strings.TrimSpace(link) == "" {
		return errors.New("empty dua link")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posted_duas(link) VALUES(?) ON CONFLICT(link) DO NOTHING`, link)
	return err
}

func (s *sqliteStore) PostedDuas(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT link FROM posted_duas`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, err
		}
		out[link] = struct{}{}
	}
	return out, rows.Err()
}
