package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	syncer "github.com/mizulegendsstudios/mizu-notes-sub000/internal/sync"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter holds a fixed token without talking to any server.
type stubAdapter struct {
	token string
}

func (s *stubAdapter) Register(_ context.Context, _ models.User) (models.Token, error) {
	return models.Token{SignedString: s.token}, nil
}

func (s *stubAdapter) Login(_ context.Context, _ models.User) (models.Token, error) {
	return models.Token{SignedString: s.token}, nil
}

func (s *stubAdapter) Token() string { return s.token }

func newTestApp(t *testing.T) *App {
	t.Helper()

	app, err := NewApp(config.Client{ServerURL: "http://localhost:8080"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return app
}

func TestWSEndpoint(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/api/ws", wsEndpoint("http://localhost:8080"))
	assert.Equal(t, "wss://notes.example.com/api/ws", wsEndpoint("https://notes.example.com/"))
	assert.Equal(t, "ws://localhost:8080/api/ws", wsEndpoint(""))
}

// Mutations issued while disconnected land in the pending set instead of
// failing.
func TestUpdateNote_QueuedWhileOffline(t *testing.T) {
	app := newTestApp(t)

	title := "renamed"
	require.NoError(t, app.UpdateNote(context.Background(), "n1", &title, nil))

	assert.Equal(t, 1, app.pending.Len())
}

func TestDeleteNote_QueuedWhileOffline(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.DeleteNote(context.Background(), "n1"))

	assert.Equal(t, 1, app.pending.Len())
}

// Creation needs a server-assigned ID, so it surfaces the connection error
// instead of queueing.
func TestCreateNote_FailsWhileOffline(t *testing.T) {
	app := newTestApp(t)

	err := app.CreateNote(context.Background(), "title", "content")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Zero(t, app.pending.Len())
}

// An inbound broadcast updates the local mirror and clears the matching
// pending entry.
func TestHandleFrame_NoteUpdateClearsPending(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	app.pending.Add("update:n1", []byte("frame"))

	note := models.Note{NoteID: "n1", Title: "renamed", Version: 2}
	body, err := json.Marshal(note)
	require.NoError(t, err)

	app.handleFrame(ctx, syncer.Encode(syncer.OpNoteUpdate, body))

	assert.Zero(t, app.pending.Len())

	notes, err := app.Notes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "renamed", notes[0].Title)
	assert.Equal(t, int64(2), notes[0].Version)
}

func TestHandleFrame_NoteDeleteRemovesFromMirror(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	note := models.Note{NoteID: "n1", Title: "t", Version: 1}
	require.NoError(t, app.cache.UpsertNote(ctx, note))

	body, err := json.Marshal(models.DeleteNoteRequest{NoteID: "n1"})
	require.NoError(t, err)

	app.handleFrame(ctx, syncer.Encode(syncer.OpNoteDelete, body))

	notes, err := app.Notes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestHandleFrame_NoteListMirrorsAll(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	body, err := json.Marshal([]models.Note{
		{NoteID: "n1", Title: "a", Version: 1},
		{NoteID: "n2", Title: "b", Version: 3},
	})
	require.NoError(t, err)

	app.handleFrame(ctx, syncer.Encode(syncer.OpNoteList, body))

	notes, err := app.Notes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

// Frames with no registered handler are logged and dropped, never a panic.
func TestHandleFrame_MissingHandler(t *testing.T) {
	app := newTestApp(t)

	delete(app.handlers, syncer.OpPong)

	app.handleFrame(context.Background(), syncer.Encode(syncer.OpPong, nil))
	app.handleFrame(context.Background(), syncer.Encode(syncer.Opcode(0x7f), []byte("junk")))
}

func TestHandleFrame_MalformedFrame(t *testing.T) {
	app := newTestApp(t)

	// empty frame fails the codec, not the client
	app.handleFrame(context.Background(), nil)
}

// Only the authenticated ACK rearms the reconnect schedule; other acks leave
// it untouched.
func TestAuthenticatedAckResetsBackoff(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	app.backoff.Next()
	app.backoff.Next()
	require.Equal(t, 2, app.backoff.attempt)

	body, err := json.Marshal(models.AckReply{Message: "noted"})
	require.NoError(t, err)
	app.handleFrame(ctx, syncer.Encode(syncer.OpAck, body))
	assert.Equal(t, 2, app.backoff.attempt)

	body, err = json.Marshal(models.AckReply{Message: "authenticated"})
	require.NoError(t, err)
	app.handleFrame(ctx, syncer.Encode(syncer.OpAck, body))
	assert.Zero(t, app.backoff.attempt)
}

func TestRun_GivesUpWhenServerUnreachable(t *testing.T) {
	app := newTestApp(t)
	app.wsURL = "ws://127.0.0.1:1/api/ws"
	app.backoff = newBackoff(time.Millisecond, 3)

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, ErrServerGaveUp)
}

// A server that accepts the upgrade but drops the connection before the
// handshake completes must still exhaust the retry budget; the dial alone
// does not rearm it.
func TestRun_GivesUpWhenSessionsDieAtHandshake(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	app := newTestApp(t)
	app.adapter = &stubAdapter{token: "stale.jwt.token"}
	app.wsURL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	app.backoff = newBackoff(time.Millisecond, 3)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrServerGaveUp)
	case <-time.After(5 * time.Second):
		t.Fatal("client kept redialing instead of giving up")
	}
}
