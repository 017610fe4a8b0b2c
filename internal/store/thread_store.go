package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/pocketfi/internal/domain"
)

// ErrThreadNotFound is returned when an operation targets a thread that does
// not exist in the store.
var ErrThreadNotFound = errors.New("thread not found")

// ThreadStore persists conversation threads and their messages in SQLite.
type ThreadStore struct {
	db *DB
}

// NewThreadStore creates a thread store using the given database.
func NewThreadStore(db *DB) *ThreadStore {
	return &ThreadStore{db: db}
}

// PlaceholderTitle marks a thread whose real title is still pending; the
// first appended user message replaces it.
const PlaceholderTitle = "New conversation"

// CreateThread creates a new empty thread. If title is empty a placeholder is
// used until the first user message derives a real one.
func (s *ThreadStore) CreateThread(title string) (*domain.Thread, error) {
	if title == "" {
		title = PlaceholderTitle
	}

	t := &domain.Thread{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO threads (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Title, t.CreatedAt.Format(time.DateTime), t.UpdatedAt.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}

	return t, nil
}

// GetThread returns a thread by ID. The message count is always derived from
// the live message rows, never stored.
func (s *ThreadStore) GetThread(id string) (*domain.Thread, error) {
	var t domain.Thread
	var createdAt, updatedAt string

	err := s.db.sql.QueryRow(
		`SELECT t.id, t.title, t.created_at, t.updated_at,
		        (SELECT COUNT(*) FROM messages m WHERE m.thread_id = t.id)
		 FROM threads t WHERE t.id = ?`, id,
	).Scan(&t.ID, &t.Title, &createdAt, &updatedAt, &t.MessageCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading thread: %w", err)
	}

	t.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	t.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return &t, nil
}

// ListThreads returns all threads, most recently created first.
func (s *ThreadStore) ListThreads() ([]*domain.Thread, error) {
	rows, err := s.db.sql.Query(
		`SELECT t.id, t.title, t.created_at, t.updated_at,
		        (SELECT COUNT(*) FROM messages m WHERE m.thread_id = t.id)
		 FROM threads t ORDER BY t.rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	defer rows.Close()

	var threads []*domain.Thread
	for rows.Next() {
		var t domain.Thread
		var createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.Title, &createdAt, &updatedAt, &t.MessageCount); err != nil {
			return nil, fmt.Errorf("scanning thread: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		t.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}

// RenameThread updates a thread's title.
func (s *ThreadStore) RenameThread(id, title string) error {
	res, err := s.db.sql.Exec(
		`UPDATE threads SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("renaming thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrThreadNotFound
	}
	return nil
}

// AppendMessage adds a message to a thread. It fails closed when the thread
// does not exist rather than silently resurrecting it.
func (s *ThreadStore) AppendMessage(threadID string, role domain.Role, content string) (*domain.Message, error) {
	var exists int
	if err := s.db.sql.QueryRow(`SELECT COUNT(*) FROM threads WHERE id = ?`, threadID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking thread: %w", err)
	}
	if exists == 0 {
		return nil, ErrThreadNotFound
	}

	msg := &domain.Message{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO messages (id, thread_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ThreadID, msg.Role, msg.Content, msg.Timestamp.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	_, _ = s.db.sql.Exec(
		`UPDATE threads SET updated_at = ? WHERE id = ?`,
		time.Now().Format(time.DateTime), threadID,
	)

	if role == domain.RoleUser && content != "" {
		_, _ = s.db.sql.Exec(
			`UPDATE threads SET title = ? WHERE id = ? AND title = ?`,
			domain.DeriveTitle(content), threadID, PlaceholderTitle,
		)
	}

	return msg, nil
}

// History returns a thread's messages in insertion order.
func (s *ThreadStore) History(threadID string) ([]domain.Message, error) {
	if _, err := s.GetThread(threadID); err != nil {
		return nil, err
	}

	rows, err := s.db.sql.Query(
		`SELECT id, thread_id, role, content, timestamp
		 FROM messages WHERE thread_id = ? ORDER BY rowid ASC`, threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var ts string
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.Role, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Timestamp, _ = time.Parse(time.DateTime, ts)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearThread removes all messages and the model checkpoint for a thread while
// keeping the thread itself. Clearing an already-empty thread is a no-op.
func (s *ThreadStore) ClearThread(threadID string) error {
	if _, err := s.GetThread(threadID); err != nil {
		return err
	}

	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE thread_id = ?`, threadID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM checkpoints WHERE thread_id = ?`, threadID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing checkpoint: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE threads SET updated_at = ? WHERE id = ?`,
		time.Now().Format(time.DateTime), threadID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("touching thread: %w", err)
	}
	return tx.Commit()
}

// DeleteThread removes a thread and, via cascade, its messages and checkpoint.
func (s *ThreadStore) DeleteThread(threadID string) error {
	res, err := s.db.sql.Exec(`DELETE FROM threads WHERE id = ?`, threadID)
	if err != nil {
		return fmt.Errorf("deleting thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrThreadNotFound
	}
	return nil
}

// DeleteMessages removes the given messages from a thread. Unknown IDs are
// ignored.
func (s *ThreadStore) DeleteMessages(threadID string, messageIDs []string) error {
	if _, err := s.GetThread(threadID); err != nil {
		return err
	}
	if len(messageIDs) == 0 {
		return nil
	}

	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	for _, id := range messageIDs {
		if _, err := tx.Exec(`DELETE FROM messages WHERE thread_id = ? AND id = ?`, threadID, id); err != nil {
			tx.Rollback()
			return fmt.Errorf("deleting message %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// MostRecentThread returns the most recently created thread, or nil when the
// store is empty.
func (s *ThreadStore) MostRecentThread() (*domain.Thread, error) {
	var id string
	err := s.db.sql.QueryRow(
		`SELECT id FROM threads ORDER BY rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding recent thread: %w", err)
	}
	return s.GetThread(id)
}
