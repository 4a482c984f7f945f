package store

import (
	"context"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
)

// Storages aggregates every persistence backend the server uses.
type Storages struct {
	UserRepository UserRepository
	NoteRepository NoteRepository
	NoteCache      NoteCache
}

// NewStorages connects to Postgres and (optionally) Redis and wires the
// repositories. An empty Redis URL disables the cache layer entirely:
// NoteCache is left nil and the service layer reads straight from the
// database.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, *DB, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}

	storages := &Storages{
		UserRepository: NewUserRepository(db, log),
		NoteRepository: NewNoteRepository(db, log),
	}

	if cfg.Redis.URL != "" {
		cache, err := NewRedisCache(cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		storages.NoteCache = cache
	}

	return storages, db, nil
}
