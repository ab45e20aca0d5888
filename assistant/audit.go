package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS recommendations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	user_query TEXT NOT NULL,
	recommended_ids TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// AuditStore keeps an append-only trail of served recommendations in sqlite.
type AuditStore struct {
	db *sql.DB
}

type AuditEntry struct {
	RequestID      string    `json:"request_id"`
	UserName       string    `json:"user_name"`
	UserQuery      string    `json:"user_query"`
	RecommendedIDs string    `json:"recommended_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewAuditStore(path string) (*AuditStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit db: %w", err)
	}

	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	return &AuditStore{db: db}, nil
}

func (a *AuditStore) Record(ctx context.Context, requestID, userName, userQuery string, ids []uint64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}

	_, err := a.db.ExecContext(ctx,
		`INSERT INTO recommendations (request_id, user_name, user_query, recommended_ids, created_at) VALUES (?, ?, ?, ?, ?)`,
		requestID, userName, userQuery, strings.Join(parts, ","), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record recommendation: %w", err)
	}

	return nil
}

func (a *AuditStore) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT request_id, user_name, user_query, recommended_ids, created_at FROM recommendations ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.RequestID, &e.UserName, &e.UserQuery, &e.RecommendedIDs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (a *AuditStore) Close() error {
	return a.db.Close()
}
