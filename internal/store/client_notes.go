package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // client-side local cache driver
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// LocalNoteCache is the client-side, SQLite-backed mirror of the user's
// notes. The sync client upserts on every NOTE_UPDATE/NOTE_CREATE broadcast
// and removes rows on NOTE_DELETE, so reads keep working while the server is
// unreachable.
type LocalNoteCache interface {
	UpsertNote(ctx context.Context, note models.Note) error
	DeleteNote(ctx context.Context, noteID string) error
	Notes(ctx context.Context) ([]models.Note, error)
	Close() error
}

const (
	createLocalNotesTable = `CREATE TABLE IF NOT EXISTS notes (
		note_id    TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		version    INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`

	upsertLocalNote = `INSERT INTO notes (note_id, title, content, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			version = excluded.version,
			updated_at = excluded.updated_at;`

	deleteLocalNote = `DELETE FROM notes WHERE note_id = ?;`

	selectLocalNotes = `SELECT note_id, title, content, version, created_at, updated_at
		FROM notes
		ORDER BY updated_at DESC;`
)

type localNoteCache struct {
	db *sql.DB
}

// NewLocalNoteCache opens (or creates) the SQLite database at path and
// ensures the notes table exists. An empty path selects an in-memory
// database.
func NewLocalNoteCache(path string) (LocalNoteCache, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open local note cache: %w", err)
	}

	if _, err = db.Exec(createLocalNotesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init local note cache schema: %w", err)
	}

	return &localNoteCache{db: db}, nil
}

func (c *localNoteCache) UpsertNote(ctx context.Context, note models.Note) error {
	_, err := c.db.ExecContext(ctx, upsertLocalNote,
		note.NoteID, note.Title, note.Content, note.Version, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert local note: %w", err)
	}
	return nil
}

func (c *localNoteCache) DeleteNote(ctx context.Context, noteID string) error {
	if _, err := c.db.ExecContext(ctx, deleteLocalNote, noteID); err != nil {
		return fmt.Errorf("delete local note: %w", err)
	}
	return nil
}

func (c *localNoteCache) Notes(ctx context.Context) ([]models.Note, error) {
	rows, err := c.db.QueryContext(ctx, selectLocalNotes)
	if err != nil {
		return nil, fmt.Errorf("select local notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 16)
	for rows.Next() {
		var note models.Note
		if err = rows.Scan(&note.NoteID, &note.Title, &note.Content, &note.Version, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan local note: %w", err)
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate local notes: %w", err)
	}

	return notes, nil
}

func (c *localNoteCache) Close() error {
	return c.db.Close()
}
