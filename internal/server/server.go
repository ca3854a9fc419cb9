// Package server exposes a game session over websockets.
//
// Each client receives {"type":"snapshot"} messages carrying the full game state
// on connect and after every accepted action, and sends engine actions as JSON.
// Rejected actions are answered with {"type":"error"} to the sender only.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/telemetry"
)

const (
	// MessageSnapshot carries a full game state.
	MessageSnapshot = "snapshot"
	// MessageError reports a rejected or unreadable action.
	MessageError = "error"

	// CodeBadRequest is sent for messages that are not a JSON action.
	CodeBadRequest = "bad-request"
	// CodeInternal is sent when an accepted action could not be stored.
	CodeInternal = "internal"

	maxMessageBytes = 64 << 10
	errorQueue      = 16
	shutdownTimeout = 5 * time.Second
)

// Session is the game a server fronts.
type Session interface {
	ID() string
	Dispatch(ctx context.Context, action engine.Action) (engine.GameState, error)
	Subscribe() (<-chan engine.GameState, func())
}

// Message is a server-to-client frame.
type Message struct {
	Type    string            `json:"type"`
	GameID  string            `json:"gameId,omitempty"`
	State   *engine.GameState `json:"state,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Server serves one session to any number of websocket clients.
type Server struct {
	session Session
	logger  *zap.Logger
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithOriginPatterns allows cross-origin browser clients matching the patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) { s.origins = append(s.origins, patterns...) }
}

// New creates a server for session.
func New(session Session, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{session: session, logger: logger.With(zap.String("game_id", session.ID()))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: GET /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWS)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("websocket server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	c := &client{
		id:      uuid.NewString(),
		conn:    conn,
		session: s.session,
		errs:    make(chan Message, errorQueue),
	}
	c.logger = s.logger.With(zap.String("client_id", c.id))
	c.logger.Info("client connected", zap.String("remote", r.RemoteAddr))

	err = c.run(r.Context())
	switch status := websocket.CloseStatus(err); {
	case err == nil, status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway, errors.Is(err, context.Canceled):
		c.logger.Info("client disconnected")
		_ = conn.Close(websocket.StatusNormalClosure, "")
	default:
		c.logger.Warn("client connection failed", zap.Error(err))
		_ = conn.Close(websocket.StatusInternalError, "connection failed")
	}
}

// client is one websocket connection. Only writeLoop writes to conn.
type client struct {
	id      string
	conn    *websocket.Conn
	session Session
	logger  *zap.Logger
	errs    chan Message
}

func (c *client) run(ctx context.Context) error {
	states, unsubscribe := c.session.Subscribe()
	defer unsubscribe()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.readLoop(ctx) })
	g.Go(func() error { return c.writeLoop(ctx, states) })
	return g.Wait()
}

func (c *client) readLoop(ctx context.Context) error {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		var action engine.Action
		if err := json.Unmarshal(data, &action); err != nil || action.Type == "" {
			c.reject(ctx, Message{Type: MessageError, Code: CodeBadRequest, Message: "expected a JSON action with a type"})
			continue
		}
		c.dispatch(ctx, action)
	}
}

func (c *client) dispatch(ctx context.Context, action engine.Action) {
	ctx, span := telemetry.Tracer("server").Start(ctx, "server.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("client.id", c.id),
		attribute.String("action.type", string(action.Type)),
	)

	if _, err := c.session.Dispatch(ctx, action); err != nil {
		code := string(engine.CodeOf(err))
		if code == "" {
			code = CodeInternal
		}
		c.reject(ctx, Message{Type: MessageError, Code: code, Message: err.Error()})
	}
}

func (c *client) reject(ctx context.Context, msg Message) {
	select {
	case c.errs <- msg:
	case <-ctx.Done():
	}
}

func (c *client) writeLoop(ctx context.Context, states <-chan engine.GameState) error {
	for {
		var msg Message
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-states:
			if !ok {
				return nil
			}
			msg = Message{Type: MessageSnapshot, GameID: c.session.ID(), State: &s}
		case msg = <-c.errs:
		}

		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode %s message: %w", msg.Type, err)
		}
		if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
			return err
		}
	}
}
