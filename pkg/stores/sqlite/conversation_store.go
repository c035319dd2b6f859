package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
)

// ConversationStore is the sqlite-backed conversation history.
type ConversationStore struct {
	db *DB
}

var _ stores.ConversationStore = &ConversationStore{}

func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

func (store *ConversationStore) GetOrCreateSession(
	ctx context.Context, userID int64, token string,
) (*types.ChatSession, error) {
	session, err := store.sessionByToken(ctx, token)
	if err == nil {
		return session, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: get session: %w", err)
	}

	now := time.Now().UTC()
	result, err := store.db.conn.ExecContext(ctx, `
		INSERT INTO chat_sessions (user_id, session_token, created_at, updated_at, is_active)
		VALUES (?, ?, ?, ?, 1)
	`, userID, token, now, now)
	if err != nil {
		return nil, fmt.Errorf("sqlite: create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: create session: %w", err)
	}

	return &types.ChatSession{
		ID:           id,
		UserID:       userID,
		SessionToken: token,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}, nil
}

func (store *ConversationStore) sessionByToken(
	ctx context.Context, token string,
) (*types.ChatSession, error) {
	var session types.ChatSession

	err := store.db.conn.QueryRowContext(ctx, `
		SELECT s.id, s.user_id, s.session_token, s.created_at, s.updated_at, s.is_active,
			(SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = s.id)
		FROM chat_sessions s WHERE s.session_token = ?
	`, token).Scan(
		&session.ID, &session.UserID, &session.SessionToken,
		&session.CreatedAt, &session.UpdatedAt, &session.IsActive, &session.MessageCount,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (store *ConversationStore) Append(
	ctx context.Context, sessionID int64, message types.ChatMessage,
) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	tx, err := store.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: append message: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_messages (session_id, message_type, content, timestamp, message_metadata)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, message.Role, message.Content, message.Timestamp, message.Metadata); err != nil {
		return fmt.Errorf("sqlite: append message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_sessions SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), sessionID); err != nil {
		return fmt.Errorf("sqlite: touch session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: append message: %w", err)
	}
	committed = true

	return nil
}

/*
History selects the most recent limit turns newest-first, then flips them
so callers receive chronological order within the window.
*/
func (store *ConversationStore) History(
	ctx context.Context, userID int64, token string, limit int,
) ([]types.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT m.id, m.session_id, m.message_type, m.content, m.timestamp, m.message_metadata
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.user_id = ?`
	args := []any{userID}

	if token != "" {
		query += ` AND s.session_token = ?`
		args = append(args, token)
	}
	query += ` ORDER BY m.timestamp DESC, m.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := store.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := []types.ChatMessage{}
	for rows.Next() {
		var message types.ChatMessage
		if err := rows.Scan(
			&message.ID, &message.SessionID, &message.Role,
			&message.Content, &message.Timestamp, &message.Metadata,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse newest-first into oldest-to-newest.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (store *ConversationStore) Sessions(
	ctx context.Context, userID int64,
) ([]types.ChatSession, error) {
	rows, err := store.db.conn.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.session_token, s.created_at, s.updated_at, s.is_active,
			(SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = s.id)
		FROM chat_sessions s
		WHERE s.user_id = ?
		ORDER BY s.updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := []types.ChatSession{}
	for rows.Next() {
		var session types.ChatSession
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.SessionToken,
			&session.CreatedAt, &session.UpdatedAt, &session.IsActive, &session.MessageCount,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}
