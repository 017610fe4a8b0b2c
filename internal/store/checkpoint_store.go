package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveCheckpoint stores an opaque model context blob for a thread, replacing
// any previous checkpoint.
func (s *ThreadStore) SaveCheckpoint(threadID, context string) error {
	if _, err := s.GetThread(threadID); err != nil {
		return err
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO checkpoints (thread_id, context, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(thread_id) DO UPDATE SET context = excluded.context, updated_at = excluded.updated_at`,
		threadID, context, time.Now().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// Checkpoint returns a thread's model context blob, or "" when none is stored.
func (s *ThreadStore) Checkpoint(threadID string) (string, error) {
	var context string
	err := s.db.sql.QueryRow(
		`SELECT context FROM checkpoints WHERE thread_id = ?`, threadID,
	).Scan(&context)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading checkpoint: %w", err)
	}
	return context, nil
}

// ClearCheckpoint removes a thread's checkpoint. Missing checkpoints are not
// an error.
func (s *ThreadStore) ClearCheckpoint(threadID string) error {
	_, err := s.db.sql.Exec(`DELETE FROM checkpoints WHERE thread_id = ?`, threadID)
	if err != nil {
		return fmt.Errorf("clearing checkpoint: %w", err)
	}
	return nil
}
