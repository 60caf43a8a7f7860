// Package history provides SQLite-based persistence for assistant sessions.
// If opening the DB or executing queries fails, the store falls back to
// in-memory storage for the life of the process.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/portfolio-chat/internal/logger"
)

// ErrSessionRequired is returned when a message has no session id.
var ErrSessionRequired = errors.New("session id is required")

const schema = `CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id TEXT,
    session_id TEXT,
    role TEXT,
    content TEXT,
    created_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);`

// Store keeps session transcripts.
type Store struct {
	db *sql.DB

	mu       sync.Mutex
	messages []Message // in-memory fallback
	nextID   int64
}

// Open opens (or creates) the database at path. A failure is logged and the
// returned store keeps messages in memory only.
func Open(path string) *Store {
	s := &Store{}
	if path == "" {
		return s
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		logger.L.Warn("sqlite open failed; using in-memory history", "error", err)
		return s
	}
	if _, err := db.Exec(schema); err != nil {
		logger.L.Warn("sqlite table creation failed; using in-memory history", "error", err)
		_ = db.Close()
		return s
	}
	logger.L.Info("sqlite history DB initialized", "path", path)
	s.db = db
	return s
}

// Persistent reports whether messages reach sqlite.
func (s *Store) Persistent() bool { return s.db != nil }

// Save persists a message to the SQLite database when available, otherwise
// to memory.
func (s *Store) Save(ctx context.Context, msg Message) error {
	if msg.SessionID == "" {
		return ErrSessionRequired
	}
	if s.db != nil {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO messages (message_id, session_id, role, content, created_at) VALUES (?,?,?,?,?);`,
			msg.MessageID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
		if err == nil {
			return nil
		}
		logger.L.Error("failed to store message in sqlite; falling back to memory", "error", err)
	}

	s.mu.Lock()
	s.nextID++
	msg.ID = s.nextID
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return nil
}

// List returns the last limit messages of a session in chronological order.
// limit <= 0 returns all of them.
func (s *Store) List(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	var out []Message
	if s.db != nil {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, message_id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY id ASC;`,
			sessionID)
		if err != nil {
			return nil, fmt.Errorf("query history: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var m Message
			if err := rows.Scan(&m.ID, &m.MessageID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
				return nil, fmt.Errorf("scan history: %w", err)
			}
			out = append(out, m)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	fromDB := len(out)
	s.mu.Lock()
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	s.mu.Unlock()

	// rows that fell back to memory interleave with the sqlite ones
	if fromDB > 0 && len(out) > fromDB {
		slices.SortStableFunc(out, func(a, b Message) int { return a.CreatedAt.Compare(b.CreatedAt) })
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
