package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/errors"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/usecase/rehearsal"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 16
)

// ProjectResolver loads a project from any source for a rehearsal
type ProjectResolver interface {
	Resolve(ctx context.Context, user *entities.User, source entities.ProjectSource, id string) (*entities.Project, error)
}

// Rehearsal serves the rehearsal websocket. Each connection owns one session.
type Rehearsal struct {
	resolver ProjectResolver
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewRehearsalHandler creates a new rehearsal handler. An empty allowedOrigins accepts any origin.
func NewRehearsalHandler(resolver ProjectResolver, logger *zap.Logger, allowedOrigins []string) *Rehearsal {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}

	return &Rehearsal{
		resolver: resolver,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(origins) == 0 || origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// rehearsalCommand is one client message
type rehearsalCommand struct {
	Type      string `json:"type"`
	Source    string `json:"source,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Scene     string `json:"scene,omitempty"`
	Character string `json:"character,omitempty"`
	Direction string `json:"direction,omitempty"`
	Text      string `json:"text,omitempty"`
}

// rehearsalEvent is one server message
type rehearsalEvent struct {
	Type    string                  `json:"type"`
	Command string                  `json:"command,omitempty"`
	Correct *bool                   `json:"correct,omitempty"`
	State   *rehearsal.SessionState `json:"state,omitempty"`
	Error   *errs                   `json:"error,omitempty"`
}

// Rehearse handles GET /rehearse
// @Summary      Rehearsal websocket
// @Description  Upgrades to a websocket. Commands: select, play, stop, line, word, input, submit, reset, state.
// @Description  Every command is answered with the session state.
// @Tags         Rehearsal
// @Param        access_token  query  string  false  "Access token for private projects"
// @Success      101  "Switching Protocols"
// @Router       /rehearse [get]
func (h *Rehearsal) Rehearse(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("rehearsal upgrade failed", zap.Error(err))
		return nil
	}

	user := currentUser(c)
	prefs := entities.DefaultDisplayPreferences()
	userID := "anonymous"
	if user != nil {
		prefs = user.Preferences()
		userID = user.ID.String()
	}
	log := h.logger.With(
		zap.String("request_id", getRequestID(c)),
		zap.String("user_id", userID),
	)
	log.Info("rehearsal connected")

	send := make(chan rehearsalEvent, sendBuffer)
	done := make(chan struct{})
	go h.writeLoop(conn, send, done, log)

	session := rehearsal.NewSession(prefs)
	h.readLoop(c.Request().Context(), conn, user, session, send, log)

	close(send)
	<-done
	log.Info("rehearsal disconnected")
	return nil
}

func (h *Rehearsal) readLoop(ctx context.Context, conn *websocket.Conn, user *entities.User, session *rehearsal.Session, send chan<- rehearsalEvent, log *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("rehearsal read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var cmd rehearsalCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			send <- errorEvent("", errors.ErrInvalidPayload(err))
			continue
		}

		event := h.apply(ctx, user, session, cmd)
		if event.Error != nil {
			log.Warn("rehearsal command failed",
				zap.String("command", cmd.Type),
				zap.String("error", event.Error.Message),
			)
		}
		send <- event
	}
}

func (h *Rehearsal) writeLoop(conn *websocket.Conn, send <-chan rehearsalEvent, done chan<- struct{}, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case event, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Warn("rehearsal write failed", zap.Error(err))
				drain(conn, send)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				drain(conn, send)
				return
			}
		}
	}
}

// drain closes the connection so the read loop exits, then discards
// events until it does.
func drain(conn *websocket.Conn, send <-chan rehearsalEvent) {
	conn.Close()
	for range send {
	}
}

// apply runs one command against the session
func (h *Rehearsal) apply(ctx context.Context, user *entities.User, session *rehearsal.Session, cmd rehearsalCommand) rehearsalEvent {
	var correct *bool

	switch cmd.Type {
	case "select":
		if err := h.selectTarget(ctx, user, session, cmd); err != nil {
			return errorEvent(cmd.Type, toAppError(nil, err))
		}
	case "play":
		session.Play()
	case "stop":
		session.Stop()
	case "line":
		dir := rehearsal.LineDirection(cmd.Direction)
		if dir != rehearsal.LineUp && dir != rehearsal.LineDown {
			return errorEvent(cmd.Type, errors.ErrInvalidArgument("direction must be up or down"))
		}
		session.AdvanceLine(dir)
	case "word":
		dir := rehearsal.WordDirection(cmd.Direction)
		if dir != rehearsal.WordLeft && dir != rehearsal.WordRight {
			return errorEvent(cmd.Type, errors.ErrInvalidArgument("direction must be left or right"))
		}
		session.AdvanceWord(dir)
	case "input":
		session.SetInput(cmd.Text)
	case "submit":
		ok := session.SubmitLine(cmd.Text)
		correct = &ok
	case "reset":
		session.Reset()
	case "state":
	default:
		return errorEvent(cmd.Type, errors.ErrInvalidArgument("unknown command "+cmd.Type))
	}

	state := session.State()
	return rehearsalEvent{
		Type:    "state",
		Command: cmd.Type,
		Correct: correct,
		State:   &state,
	}
}

// selectTarget loads a project when the reference changes, then applies the scene and character
func (h *Rehearsal) selectTarget(ctx context.Context, user *entities.User, session *rehearsal.Session, cmd rehearsalCommand) error {
	if cmd.ProjectID != "" {
		ref := rehearsal.ProjectRef{Source: entities.ProjectSource(cmd.Source), ID: cmd.ProjectID}
		if ref != session.State().Project {
			project, err := h.resolver.Resolve(ctx, user, ref.Source, ref.ID)
			if err != nil {
				return err
			}
			session.SelectProject(ref, project)
		}
	}
	if cmd.Scene != "" {
		if err := session.SelectScene(cmd.Scene); err != nil {
			return err
		}
	}
	if cmd.Character != "" {
		if err := session.SelectCharacter(cmd.Character); err != nil {
			return err
		}
	}
	return nil
}

func errorEvent(command string, appErr errors.AppError) rehearsalEvent {
	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}
	return rehearsalEvent{
		Type:    "error",
		Command: command,
		Error: &errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		},
	}
}
