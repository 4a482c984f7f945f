package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrLoginAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Login, user.PasswordHash, user.Name)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrLoginAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	if err := row.Scan(&user.UserID, &user.Login, &user.PasswordHash, &user.Name, &user.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrLoginAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return user, nil
}

// FindUserByLogin retrieves a user record by login.
//
// Error handling:
//   - sql.ErrNoRows → [ErrNoUserWasFound].
//   - Any other error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	row := r.db.QueryRowContext(ctx, findUserByLogin, login)

	if err := row.Scan(&foundUser.UserID, &foundUser.Login, &foundUser.PasswordHash, &foundUser.Name, &foundUser.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByLogin").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return foundUser, nil
}
