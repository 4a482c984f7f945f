package store

const (
	createUser = `INSERT INTO users (login, password_hash, name)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, password_hash, name, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, name, created_at
    FROM users
    WHERE login = $1;`

	getUserNotes = `SELECT note_id, user_id, title, content, version, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY updated_at DESC;`

	createNote = `INSERT INTO notes (note_id, user_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING note_id, user_id, title, content, version, created_at, updated_at;`

	deleteNote = `DELETE FROM notes
		WHERE note_id = $1 AND user_id = $2;`
)
