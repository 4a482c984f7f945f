package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// noteRepository is the PostgreSQL-backed implementation of [NoteRepository].
// It executes all note CRUD operations against the "notes" table using the
// embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (user_id, note_id, etc.).
type noteRepository struct {
	*DB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by the provided
// database connection and logger.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	return &noteRepository{
		DB:     db,
		logger: logger,
	}
}

// GetUserNotes retrieves every note owned by the given user, most recently
// updated first. Returns an empty slice when no records are found.
func (n *noteRepository) GetUserNotes(ctx context.Context, userID int64) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := n.DB.QueryContext(ctx, getUserNotes, userID)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "noteRepository.GetUserNotes").
			Int64("user_id", userID).
			Msg("failed to execute query for getting user notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 16)
	for rows.Next() {
		var note models.Note
		if scanErr := rows.Scan(&note.NoteID, &note.UserID, &note.Title, &note.Content, &note.Version, &note.CreatedAt, &note.UpdatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "noteRepository.GetUserNotes").
				Int64("user_id", userID).
				Msg("failed to scan note row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "noteRepository.GetUserNotes").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, rowsErr)
	}

	return notes, nil
}

// CreateNote persists a new note and returns the canonical row with
// server-assigned fields (version 1, timestamps).
func (n *noteRepository) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	log := logger.FromContext(ctx)

	row := n.DB.QueryRowContext(ctx, createNote, note.NoteID, note.UserID, note.Title, note.Content)

	var created models.Note
	if err := row.Scan(&created.NoteID, &created.UserID, &created.Title, &created.Content, &created.Version, &created.CreatedAt, &created.UpdatedAt); err != nil {
		log.Err(err).
			Str("func", "noteRepository.CreateNote").
			Int64("user_id", note.UserID).
			Msg("failed to insert note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

// UpdateNote applies the non-nil patch fields to (noteID, userID), bumps the
// version counter and updated_at, and returns the canonical row via a
// RETURNING clause. The UPDATE is built dynamically with squirrel so only the
// supplied fields appear in the SET list.
//
// Returns [ErrNoteNotFound] when no row matches — either the note does not
// exist or it belongs to another user; the two cases are indistinguishable on
// purpose.
func (n *noteRepository) UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error) {
	log := logger.FromContext(ctx)

	builder := sq.Update("notes").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"note_id": noteID, "user_id": userID}).
		Suffix("RETURNING note_id, user_id, title, content, version, created_at, updated_at").
		PlaceholderFormat(sq.Dollar)

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.Content != nil {
		builder = builder.Set("content", *patch.Content)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.UpdateNote").
			Str("note_id", noteID).
			Msg("failed to build update query")
		return models.Note{}, err
	}

	row := n.DB.QueryRowContext(ctx, query, args...)

	var updated models.Note
	if err = row.Scan(&updated.NoteID, &updated.UserID, &updated.Title, &updated.Content, &updated.Version, &updated.CreatedAt, &updated.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}
		log.Err(err).
			Str("func", "noteRepository.UpdateNote").
			Str("note_id", noteID).
			Int64("user_id", userID).
			Msg("failed to execute update query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}

// DeleteNote removes (noteID, userID). The boolean reports whether a row was
// actually deleted; a miss is not an error.
func (n *noteRepository) DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := n.DB.ExecContext(ctx, deleteNote, noteID, userID)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.DeleteNote").
			Str("note_id", noteID).
			Int64("user_id", userID).
			Msg("failed to execute delete query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected > 0, nil
}
