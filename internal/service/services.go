package service

import (
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/store"
)

type Services struct {
	AuthService AuthService
	NoteService NoteService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, cfg.App, logger),
		NoteService: NewNoteService(storages.NoteRepository, storages.NoteCache, cfg.Storage.Redis, logger),
	}
}
