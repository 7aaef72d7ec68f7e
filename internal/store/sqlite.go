package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"launchline/internal/domain"
)

// SQLite stores each launch as one JSON document row. ReplaceAll runs in a
// single transaction, so the collection is either fully replaced or
// untouched.
type SQLite struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSQLite(conn *sql.DB) *SQLite {
	return &SQLite{DB: conn, Now: time.Now}
}

func (s *SQLite) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SQLite) LoadAll(ctx context.Context) ([]domain.Launch, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT doc_json FROM launches ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var launches []domain.Launch
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var l domain.Launch
		if err := json.Unmarshal([]byte(doc), &l); err != nil {
			return nil, fmt.Errorf("decode launch: %w", err)
		}
		launches = append(launches, l)
	}
	return launches, rows.Err()
}

func (s *SQLite) ReplaceAll(ctx context.Context, launches []domain.Launch) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM launches`); err != nil {
		return err
	}
	now := s.now().UTC().Format(time.RFC3339)
	for i, l := range launches {
		doc, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("encode launch %s: %w", l.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO launches(id,doc_json,position,updated_at) VALUES (?,?,?,?)`,
			l.ID, string(doc), i, now); err != nil {
			return fmt.Errorf("insert launch %s: %w", l.ID, err)
		}
	}
	return tx.Commit()
}
