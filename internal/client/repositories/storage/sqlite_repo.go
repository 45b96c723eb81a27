package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/comparehub/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, scope Scope, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE scope = ? AND key = ?`, string(scope), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s[%s]: %w", scope, key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, scope Scope, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO storage (scope, key, value) VALUES (?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, string(scope), key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s[%s]: %w", scope, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, scope Scope, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM storage WHERE scope = ? AND key = ?`, string(scope), key)
	if err != nil {
		return fmt.Errorf("failed to delete %s[%s]: %w", scope, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, scope Scope) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM storage WHERE scope = ?`, string(scope))
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", scope, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, scope Scope) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM storage WHERE scope = ?`, string(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", scope, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", scope, err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", scope, err)
	}

	return result, nil
}
