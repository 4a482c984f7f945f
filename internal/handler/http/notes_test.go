package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/service"
	syncer "github.com/mizulegendsstudios/mizu-notes-sub000/internal/sync"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID     = int64(7)
	testValidToken = "valid.jwt.token"
)

// mockNoteService implements service.NoteService for unit tests.
type mockNoteService struct {
	getUserNotesFn func(ctx context.Context, userID int64) ([]models.Note, error)
	createNoteFn   func(ctx context.Context, userID int64, title, content string) (models.Note, error)
	updateNoteFn   func(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error)
	deleteNoteFn   func(ctx context.Context, noteID string, userID int64) (bool, error)
}

func (m *mockNoteService) GetUserNotes(ctx context.Context, userID int64) ([]models.Note, error) {
	return m.getUserNotesFn(ctx, userID)
}

func (m *mockNoteService) CreateNote(ctx context.Context, userID int64, title, content string) (models.Note, error) {
	return m.createNoteFn(ctx, userID, title, content)
}

func (m *mockNoteService) UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error) {
	return m.updateNoteFn(ctx, noteID, userID, patch)
}

func (m *mockNoteService) DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error) {
	return m.deleteNoteFn(ctx, noteID, userID)
}

// authStub is a ParseToken-only AuthService accepting testValidToken.
func authStub() *mockAuthService {
	return &mockAuthService{
		parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
			if tokenString != testValidToken {
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			}
			return models.Token{UserID: testUserID}, nil
		},
	}
}

// newNotesRouter wires a full router with the given note service and
// enqueuer so that requests pass through the auth middleware and chi URL
// parameter extraction the same way they do in production.
func newNotesRouter(t *testing.T, notes service.NoteService, enq *mockEnqueuer) http.Handler {
	t.Helper()

	svcs := &service.Services{
		AuthService: authStub(),
		NoteService: notes,
	}
	return NewHandler(svcs, enq, nil, logger.Nop()).Init()
}

func doAuthedRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testValidToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListNotes_Success(t *testing.T) {
	stored := []models.Note{
		{NoteID: "n1", UserID: testUserID, Title: "first", Version: 1},
		{NoteID: "n2", UserID: testUserID, Title: "second", Version: 3},
	}

	notes := &mockNoteService{
		getUserNotesFn: func(_ context.Context, userID int64) ([]models.Note, error) {
			require.Equal(t, testUserID, userID)
			return stored, nil
		},
	}

	router := newNotesRouter(t, notes, &mockEnqueuer{})
	rec := doAuthedRequest(t, router, http.MethodGet, "/api/notes", "")

	require.Equal(t, http.StatusOK, rec.Code)

	// the owner's ID never crosses the wire
	assert.NotContains(t, rec.Body.String(), "user_id")

	var got []models.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	want := make([]models.Note, len(stored))
	copy(want, stored)
	for i := range want {
		want[i].UserID = 0
	}
	assert.Equal(t, want, got)
}

func TestListNotes_StorageError(t *testing.T) {
	notes := &mockNoteService{
		getUserNotesFn: func(_ context.Context, _ int64) ([]models.Note, error) {
			return nil, assert.AnError
		},
	}

	router := newNotesRouter(t, notes, &mockEnqueuer{})
	rec := doAuthedRequest(t, router, http.MethodGet, "/api/notes", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateNote_Success(t *testing.T) {
	notes := &mockNoteService{
		createNoteFn: func(_ context.Context, userID int64, title, content string) (models.Note, error) {
			require.Equal(t, testUserID, userID)
			return models.Note{NoteID: "n1", UserID: userID, Title: title, Content: content, Version: 1}, nil
		},
	}

	router := newNotesRouter(t, notes, &mockEnqueuer{})
	rec := doAuthedRequest(t, router, http.MethodPost, "/api/notes", `{"title":"groceries","content":"milk"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "n1", got.NoteID)
	assert.Equal(t, "groceries", got.Title)
	assert.Equal(t, int64(1), got.Version)
}

func TestCreateNote_InvalidJSON(t *testing.T) {
	router := newNotesRouter(t, &mockNoteService{}, &mockEnqueuer{})
	rec := doAuthedRequest(t, router, http.MethodPost, "/api/notes", "{broken")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNote_EmptyTitle(t *testing.T) {
	notes := &mockNoteService{
		createNoteFn: func(_ context.Context, _ int64, _, _ string) (models.Note, error) {
			return models.Note{}, service.ErrInvalidDataProvided
		},
	}

	router := newNotesRouter(t, notes, &mockEnqueuer{})
	rec := doAuthedRequest(t, router, http.MethodPost, "/api/notes", `{"title":"","content":"milk"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// An accepted update does not touch storage directly: the handler hands the
// patch to the sync queue and answers 202.
func TestUpdateNote_EnqueuesOperation(t *testing.T) {
	enq := &mockEnqueuer{}
	router := newNotesRouter(t, &mockNoteService{}, enq)

	rec := doAuthedRequest(t, router, http.MethodPatch, "/api/notes/n1", `{"title":"renamed"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, enq.ops, 1)

	op := enq.ops[0]
	assert.Equal(t, syncer.KindUpdate, op.Kind)
	assert.Equal(t, testUserID, op.UserID)
	assert.Equal(t, "n1", op.NoteID)
	require.NotNil(t, op.Title)
	assert.Equal(t, "renamed", *op.Title)
	assert.Nil(t, op.Content)
}

func TestUpdateNote_EmptyPatch(t *testing.T) {
	enq := &mockEnqueuer{}
	router := newNotesRouter(t, &mockNoteService{}, enq)

	rec := doAuthedRequest(t, router, http.MethodPatch, "/api/notes/n1", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, enq.ops)
}

func TestUpdateNote_QueueFull(t *testing.T) {
	enq := &mockEnqueuer{err: syncer.ErrQueueFull}
	router := newNotesRouter(t, &mockNoteService{}, enq)

	rec := doAuthedRequest(t, router, http.MethodPatch, "/api/notes/n1", `{"title":"renamed"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "sync queue full")
}

func TestDeleteNote_EnqueuesOperation(t *testing.T) {
	enq := &mockEnqueuer{}
	router := newNotesRouter(t, &mockNoteService{}, enq)

	rec := doAuthedRequest(t, router, http.MethodDelete, "/api/notes/n1", "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, enq.ops, 1)

	op := enq.ops[0]
	assert.Equal(t, syncer.KindDelete, op.Kind)
	assert.Equal(t, testUserID, op.UserID)
	assert.Equal(t, "n1", op.NoteID)
}

func TestDeleteNote_QueueFull(t *testing.T) {
	enq := &mockEnqueuer{err: syncer.ErrQueueFull}
	router := newNotesRouter(t, &mockNoteService{}, enq)

	rec := doAuthedRequest(t, router, http.MethodDelete, "/api/notes/n1", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
