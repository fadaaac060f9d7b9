package repository

import (
	"context"
	"database/sql"
	"fmt"

	"primmfy/internal/entity"
)

type AuthEventRepository struct {
	db *sql.DB
}

func NewAuthEventRepository(db *sql.DB) *AuthEventRepository {
	return &AuthEventRepository{db: db}
}

// Record stores one authentication event.
func (r *AuthEventRepository) Record(ctx context.Context, ev entity.AuthEvent) error {
	var userID sql.NullInt64
	if ev.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*ev.UserID), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_events (id, kind, email, user_id, role, remote_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ev.ID, string(ev.Kind), ev.Email, userID, string(ev.Role), ev.RemoteAddr, ev.CreatedAt)
	if err != nil {
		return &AuthEventRepositoryError{Op: "insert", Err: err}
	}
	return nil
}

// Recent returns the latest events of a user, newest first.
func (r *AuthEventRepository) Recent(ctx context.Context, userID, limit int) ([]entity.AuthEvent, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, email, user_id, role, remote_addr, created_at
		FROM auth_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, &AuthEventRepositoryError{Op: "select", Err: err}
	}
	defer rows.Close()

	events := make([]entity.AuthEvent, 0, limit)
	for rows.Next() {
		var (
			ev   entity.AuthEvent
			kind string
			role string
			uid  sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &kind, &ev.Email, &uid, &role, &ev.RemoteAddr, &ev.CreatedAt); err != nil {
			return nil, &AuthEventRepositoryError{Op: "scan", Err: err}
		}
		ev.Kind = entity.AuthEventKind(kind)
		ev.Role = entity.Role(role)
		if uid.Valid {
			id := int(uid.Int64)
			ev.UserID = &id
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &AuthEventRepositoryError{Op: "select", Err: err}
	}
	return events, nil
}

type AuthEventRepositoryError struct {
	Op  string
	Err error
}

func (e *AuthEventRepositoryError) Error() string {
	return fmt.Sprintf("auth event repository: %s: %v", e.Op, e.Err)
}

func (e *AuthEventRepositoryError) Unwrap() error {
	return e.Err
}
