package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"topcoach/internal/glm"

	"github.com/google/uuid"
)

// User maps an external identity-provider subject to an internal identifier
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store provides typed CRUD over users, messages and conversation summaries.
// Messages and summaries are append-only; ordering is (created_at, id).
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureUser returns the user mapped to externalID, creating the mapping on
// first contact. Idempotent: a creation race against the external_id unique
// constraint falls back to re-reading the winner's row.
func (s *Store) EnsureUser(ctx context.Context, externalID string) (User, error) {
	u, err := s.userByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	u = User{
		ID:          uuid.New().String(),
		ExternalID:  externalID,
		DisplayName: defaultDisplayName(externalID),
		CreatedAt:   time.Now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, external_id, display_name, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.ExternalID, u.DisplayName, u.CreatedAt.Unix(),
	)
	if err != nil {
		// Lost a concurrent creation race - the unique constraint fired.
		// The winner's row is authoritative.
		if existing, rerr := s.userByExternalID(ctx, externalID); rerr == nil {
			return existing, nil
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) userByExternalID(ctx context.Context, externalID string) (User, error) {
	var u User
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, external_id, display_name, created_at FROM users WHERE external_id = ?`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.DisplayName, &createdAt)
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	return u, nil
}

func defaultDisplayName(externalID string) string {
	if len(externalID) > 8 {
		externalID = externalID[:8]
	}
	return "User_" + externalID
}

// DisplayName returns the display name for an internal user ID
func (s *Store) DisplayName(ctx context.Context, userID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT display_name FROM users WHERE id = ?`, userID,
	).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("lookup display name: %w", err)
	}
	return name, nil
}

// AppendMessage persists one conversation turn. Messages are immutable once
// written; callers treat a failure here as non-fatal to the enclosing turn.
func (s *Store) AppendMessage(ctx context.Context, userID, role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (user_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		userID, role, content, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListMessages returns conversation history in chronological order.
// A limit > 0 bounds the result to the most recent limit messages - still
// chronological after the internal newest-first query is reversed.
func (s *Store) ListMessages(ctx context.Context, userID string, limit int) ([]glm.Message, error) {
	query := `SELECT role, content FROM messages WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []glm.Message
	for rows.Next() {
		var m glm.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// Reverse to chronological - every consumer assumes oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountUserTurns counts messages with role 'user' only; assistant turns are
// excluded from the summarization trigger count.
func (s *Store) CountUserTurns(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id = ? AND role = 'user'`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user turns: %w", err)
	}
	return count, nil
}

// CountUserTurnsSince counts user-authored messages created at or after the
// given time.
func (s *Store) CountUserTurnsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id = ? AND role = 'user' AND created_at >= ?`,
		userID, since.Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user turns since: %w", err)
	}
	return count, nil
}

// AppendSummary persists one conversation summary. Summaries accumulate;
// they are never updated or deleted.
func (s *Store) AppendSummary(ctx context.Context, userID, transcript, importantInfo string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (user_id, transcript, important_info, created_at) VALUES (?, ?, ?, ?)`,
		userID, transcript, importantInfo, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append summary: %w", err)
	}
	return nil
}

// LatestImportantInfo returns the most recent summary's extracted info.
// The second return is false when no summary exists yet - not an error.
func (s *Store) LatestImportantInfo(ctx context.Context, userID string) (string, bool, error) {
	var info string
	err := s.db.QueryRowContext(ctx,
		`SELECT important_info FROM summaries WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	).Scan(&info)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("latest important info: %w", err)
	}
	return info, true, nil
}
