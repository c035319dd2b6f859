package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

/*
DB wraps one sqlite database holding the whole data model: products,
users, chat sessions and chat messages. All store implementations in this
package share it.
*/
type DB struct {
	conn *sql.DB
}

/*
Open opens (creating if needed) the database at dsn and runs migrations.
*/
func Open(dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: empty dsn")
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// DSNForFile builds a DSN with WAL journaling and a busy timeout, the
// settings a concurrent HTTP server needs.
func DSNForFile(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
}

func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL,
			category TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			rating REAL NOT NULL DEFAULT 0,
			is_featured INTEGER NOT NULL DEFAULT 0,
			is_on_sale INTEGER NOT NULL DEFAULT 0,
			sale_price REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			session_token TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
			message_type TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			message_metadata TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS products_by_category ON products(category);`,
		`CREATE INDEX IF NOT EXISTS products_by_brand ON products(brand);`,
		`CREATE INDEX IF NOT EXISTS chat_sessions_by_user ON chat_sessions(user_id, updated_at DESC);`,
		`CREATE INDEX IF NOT EXISTS chat_messages_by_session ON chat_messages(session_id, timestamp);`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}

	return nil
}
