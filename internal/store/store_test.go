package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testStore(t *testing.T) *ThreadStore {
	t.Helper()
	return NewThreadStore(testDB(t))
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"threads", "messages", "checkpoints"}
	for _, table := range tables {
		var name string
		err := db.sql.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

// --- Thread tests ---

func TestCreateThread(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("Portfolio check")
	require.NoError(t, err)
	assert.NotEmpty(t, thread.ID)
	assert.Equal(t, "Portfolio check", thread.Title)
	assert.Equal(t, 0, thread.MessageCount)
}

func TestCreateThread_DefaultTitle(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderTitle, thread.Title)
}

func TestAppendMessage_DerivesPlaceholderTitle(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("")
	require.NoError(t, err)

	_, err = s.AppendMessage(thread.ID, domain.RoleUser, "what are my yield options right now?")
	require.NoError(t, err)

	got, err := s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeriveTitle("what are my yield options right now?"), got.Title)

	// a later user message must not retitle the thread
	_, err = s.AppendMessage(thread.ID, domain.RoleUser, "something else entirely")
	require.NoError(t, err)
	got, err = s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeriveTitle("what are my yield options right now?"), got.Title)
}

func TestAppendMessage_KeepsExplicitTitle(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("Portfolio check")
	require.NoError(t, err)

	_, err = s.AppendMessage(thread.ID, domain.RoleUser, "hello")
	require.NoError(t, err)

	got, err := s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio check", got.Title)
}

func TestGetThread_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetThread("missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestGetThread_MessageCountDerived(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("counts")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.AppendMessage(thread.ID, domain.RoleUser, "hello")
		require.NoError(t, err)
	}

	got, err := s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MessageCount)

	// Count must track live rows after deletion too
	msgs, err := s.History(thread.ID)
	require.NoError(t, err)
	err = s.DeleteMessages(thread.ID, []string{msgs[0].ID})
	require.NoError(t, err)

	got, err = s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MessageCount)
}

func TestListThreads_MostRecentFirst(t *testing.T) {
	s := testStore(t)

	first, err := s.CreateThread("first")
	require.NoError(t, err)
	second, err := s.CreateThread("second")
	require.NoError(t, err)

	threads, err := s.ListThreads()
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, second.ID, threads[0].ID)
	assert.Equal(t, first.ID, threads[1].ID)
}

func TestRenameThread(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("old")
	require.NoError(t, err)

	err = s.RenameThread(thread.ID, "new")
	require.NoError(t, err)

	got, err := s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	err = s.RenameThread("missing", "x")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

// --- Message tests ---

func TestAppendMessage(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("chat")
	require.NoError(t, err)

	msg, err := s.AppendMessage(thread.ID, domain.RoleUser, "what's my balance?")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, thread.ID, msg.ThreadID)
	assert.Equal(t, domain.RoleUser, msg.Role)
}

func TestAppendMessage_MissingThread(t *testing.T) {
	s := testStore(t)

	_, err := s.AppendMessage("missing", domain.RoleUser, "hello")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestHistory_InsertionOrder(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("order")
	require.NoError(t, err)

	contents := []string{"one", "two", "three"}
	for _, c := range contents {
		_, err := s.AppendMessage(thread.ID, domain.RoleUser, c)
		require.NoError(t, err)
	}

	msgs, err := s.History(thread.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, c := range contents {
		assert.Equal(t, c, msgs[i].Content)
	}
}

func TestHistory_MissingThread(t *testing.T) {
	s := testStore(t)

	_, err := s.History("missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestDeleteMessages_UnknownIDsIgnored(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("del")
	require.NoError(t, err)
	msg, err := s.AppendMessage(thread.ID, domain.RoleUser, "keep or drop")
	require.NoError(t, err)

	err = s.DeleteMessages(thread.ID, []string{msg.ID, "not-a-real-id"})
	require.NoError(t, err)

	got, err := s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MessageCount)
}

// --- Clear/Delete tests ---

func TestClearThread(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("clear me")
	require.NoError(t, err)
	_, err = s.AppendMessage(thread.ID, domain.RoleUser, "hi")
	require.NoError(t, err)
	err = s.SaveCheckpoint(thread.ID, `{"tokens":123}`)
	require.NoError(t, err)

	err = s.ClearThread(thread.ID)
	require.NoError(t, err)

	got, err := s.GetThread(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MessageCount)
	assert.Equal(t, "clear me", got.Title)

	ckpt, err := s.Checkpoint(thread.ID)
	require.NoError(t, err)
	assert.Empty(t, ckpt)
}

func TestClearThread_EmptyIsNoop(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("already empty")
	require.NoError(t, err)

	err = s.ClearThread(thread.ID)
	require.NoError(t, err)
	err = s.ClearThread(thread.ID)
	require.NoError(t, err)
}

func TestDeleteThread_Cascades(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("doomed")
	require.NoError(t, err)
	_, err = s.AppendMessage(thread.ID, domain.RoleAssistant, "bye")
	require.NoError(t, err)
	err = s.SaveCheckpoint(thread.ID, "ctx")
	require.NoError(t, err)

	err = s.DeleteThread(thread.ID)
	require.NoError(t, err)

	_, err = s.GetThread(thread.ID)
	assert.ErrorIs(t, err, ErrThreadNotFound)

	var count int
	err = s.db.sql.QueryRow("SELECT COUNT(*) FROM messages WHERE thread_id = ?", thread.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = s.db.sql.QueryRow("SELECT COUNT(*) FROM checkpoints WHERE thread_id = ?", thread.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteThread_NotFound(t *testing.T) {
	s := testStore(t)

	err := s.DeleteThread("missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestMostRecentThread(t *testing.T) {
	s := testStore(t)

	recent, err := s.MostRecentThread()
	require.NoError(t, err)
	assert.Nil(t, recent)

	_, err = s.CreateThread("older")
	require.NoError(t, err)
	newest, err := s.CreateThread("newest")
	require.NoError(t, err)

	recent, err = s.MostRecentThread()
	require.NoError(t, err)
	require.NotNil(t, recent)
	assert.Equal(t, newest.ID, recent.ID)
}

// --- Checkpoint tests ---

func TestCheckpoint_SaveAndReplace(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("ckpt")
	require.NoError(t, err)

	err = s.SaveCheckpoint(thread.ID, "v1")
	require.NoError(t, err)
	err = s.SaveCheckpoint(thread.ID, "v2")
	require.NoError(t, err)

	got, err := s.Checkpoint(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
}

func TestCheckpoint_MissingThread(t *testing.T) {
	s := testStore(t)

	err := s.SaveCheckpoint("missing", "ctx")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestClearCheckpoint_MissingIsNoop(t *testing.T) {
	s := testStore(t)

	thread, err := s.CreateThread("no ckpt")
	require.NoError(t, err)

	err = s.ClearCheckpoint(thread.ID)
	require.NoError(t, err)
}
