package ws

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/service"
	syncer "github.com/mizulegendsstudios/mizu-notes-sub000/internal/sync"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// Enqueuer accepts sync operations for asynchronous processing.
// Implemented by sync.Engine.
type Enqueuer interface {
	Enqueue(op syncer.Operation) error
}

// Dispatcher decodes each inbound binary frame and routes it by opcode,
// enforcing the authentication gate: any opcode other than AUTH on an
// unauthenticated session earns a single ERROR reply and the connection
// stays open; a failed AUTH closes it.
//
// Reads (NOTE_LIST) and creation (NOTE_CREATE) reply directly; mutations
// (NOTE_UPDATE, NOTE_DELETE) go through the sync queue so every live session
// of the user converges on the canonical result.
type Dispatcher struct {
	auth     service.AuthService
	notes    service.NoteService
	engine   Enqueuer
	registry *Registry

	logger *logger.Logger
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(auth service.AuthService, notes service.NoteService, engine Enqueuer, registry *Registry, logger *logger.Logger) *Dispatcher {
	logger.Debug().Msg("creating websocket dispatcher")
	return &Dispatcher{
		auth:     auth,
		notes:    notes,
		engine:   engine,
		registry: registry,
		logger:   logger,
	}
}

// Dispatch handles one inbound frame on behalf of a session. Decode failures
// and unknown opcodes are converted to ERROR replies; they never crash the
// connection.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, frame []byte) {
	op, payload, err := syncer.Decode(frame)
	if err != nil {
		d.sendError(s, "malformed message")
		return
	}

	if !op.Known() {
		d.logger.Debug().Str("opcode", op.String()).Msg("unknown opcode received")
		d.sendError(s, ErrUnknownOpcode.Error())
		return
	}

	if op == syncer.OpAuth {
		d.handleAuth(ctx, s, payload)
		return
	}

	if !s.authenticated {
		d.sendError(s, ErrNotAuthenticated.Error())
		return
	}

	switch op {
	case syncer.OpPing:
		s.Send(syncer.Encode(syncer.OpPong, nil))

	case syncer.OpNoteList:
		d.handleNoteList(ctx, s)

	case syncer.OpNoteCreate:
		d.handleNoteCreate(ctx, s, payload)

	case syncer.OpNoteUpdate:
		d.handleNoteUpdate(s, payload)

	case syncer.OpNoteDelete:
		d.handleNoteDelete(s, payload)

	default:
		// PONG, ERROR and ACK are server-to-client; a client sending them
		// gets the same treatment as an unknown opcode.
		d.sendError(s, ErrUnknownOpcode.Error())
	}
}

// handleAuth runs the authentication handshake. An empty credential is
// rejected without calling the verifier; a rejected credential replies ERROR
// and closes the transport with a policy-violation code. On success the
// session is registered and acknowledged.
func (d *Dispatcher) handleAuth(ctx context.Context, s *Session, payload []byte) {
	if len(payload) == 0 {
		d.sendError(s, ErrInvalidCredential.Error())
		s.ClosePolicyViolation(ErrInvalidCredential.Error())
		return
	}

	token, err := d.auth.ParseToken(ctx, string(payload))
	if err != nil {
		d.logger.Debug().Err(err).Msg("websocket credential rejected")
		d.sendError(s, ErrInvalidCredential.Error())
		s.ClosePolicyViolation(ErrInvalidCredential.Error())
		return
	}

	s.authenticated = true
	s.userID = token.UserID
	d.registry.Register(token.UserID, s)

	d.sendAck(s, "authenticated")
}

func (d *Dispatcher) handleNoteList(ctx context.Context, s *Session) {
	notes, err := d.notes.GetUserNotes(ctx, s.userID)
	if err != nil {
		d.logger.Err(err).Int64("user_id", s.userID).Msg("failed to list notes")
		d.sendError(s, "failed to list notes")
		return
	}

	body, err := json.Marshal(notes)
	if err != nil {
		d.sendError(s, "failed to serialize notes")
		return
	}

	s.Send(syncer.Encode(syncer.OpNoteList, body))
}

func (d *Dispatcher) handleNoteCreate(ctx context.Context, s *Session, payload []byte) {
	var req models.CreateNoteRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		d.sendError(s, "malformed note payload")
		return
	}

	note, err := d.notes.CreateNote(ctx, s.userID, req.Title, req.Content)
	if err != nil {
		d.logger.Err(err).Int64("user_id", s.userID).Msg("failed to create note")
		d.sendError(s, "failed to create note")
		return
	}

	body, err := json.Marshal(note)
	if err != nil {
		d.sendError(s, "failed to serialize note")
		return
	}

	s.Send(syncer.Encode(syncer.OpNoteCreate, body))
}

func (d *Dispatcher) handleNoteUpdate(s *Session, payload []byte) {
	var req models.UpdateNoteRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.NoteID == "" {
		d.sendError(s, "malformed note payload")
		return
	}

	if err := d.engine.Enqueue(syncer.UpdateOperation(s.userID, req.NoteID, req.Title, req.Content)); err != nil {
		d.sendError(s, "sync queue full")
	}
}

func (d *Dispatcher) handleNoteDelete(s *Session, payload []byte) {
	var req models.DeleteNoteRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.NoteID == "" {
		d.sendError(s, "malformed note payload")
		return
	}

	if err := d.engine.Enqueue(syncer.DeleteOperation(s.userID, req.NoteID)); err != nil {
		d.sendError(s, "sync queue full")
	}
}

func (d *Dispatcher) sendError(s *Session, reason string) {
	body, err := json.Marshal(models.ErrorReply{Error: reason})
	if err != nil {
		return
	}
	s.Send(syncer.Encode(syncer.OpError, body))
}

func (d *Dispatcher) sendAck(s *Session, message string) {
	body, err := json.Marshal(models.AckReply{Message: message})
	if err != nil {
		return
	}
	s.Send(syncer.Encode(syncer.OpAck, body))
}
