package store

type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "initial schema",
		SQL: `
			CREATE TABLE threads (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);

			CREATE TABLE messages (
				id        TEXT PRIMARY KEY,
				thread_id TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
				role      TEXT NOT NULL,
				content   TEXT NOT NULL,
				timestamp TEXT NOT NULL
			);
			CREATE INDEX idx_messages_thread ON messages(thread_id);

			CREATE TABLE checkpoints (
				thread_id  TEXT PRIMARY KEY REFERENCES threads(id) ON DELETE CASCADE,
				context    TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
		`,
	},
}
