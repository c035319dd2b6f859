package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
)

// UserStore is the sqlite-backed account store.
type UserStore struct {
	db *DB
}

var _ stores.UserStore = &UserStore{}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

func (store *UserStore) Create(ctx context.Context, user *types.User) error {
	// Duplicate checks run first so the caller gets a specific error
	// instead of a bare UNIQUE constraint failure.
	var count int
	if err := store.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, user.Username,
	).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	if count > 0 {
		return errors.ErrUsernameTaken
	}

	if err := store.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email,
	).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	if count > 0 {
		return errors.ErrEmailTaken
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := store.db.conn.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	user.ID = id

	return nil
}

const userColumns = `id, username, email, password_hash, is_active, created_at`

func (store *UserStore) Get(ctx context.Context, id int64) (*types.User, error) {
	return store.scanOne(store.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (store *UserStore) GetByLogin(ctx context.Context, login string) (*types.User, error) {
	return store.scanOne(store.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`, login, login))
}

func (store *UserStore) scanOne(row *sql.Row) (*types.User, error) {
	var user types.User

	err := row.Scan(
		&user.ID, &user.Username, &user.Email,
		&user.PasswordHash, &user.IsActive, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get user: %w", err)
	}

	return &user, nil
}
