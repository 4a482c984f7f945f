package http

import (
	"errors"
	"net/http"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/service"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrNoteNotFound:       http.StatusNotFound,

	store.ErrExecutingQuery: http.StatusInternalServerError,
	store.ErrScanningRow:    http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
