// Package gateway exposes the engine over HTTP and WebSocket.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soyeahso/pocketfi/internal/config"
	"github.com/soyeahso/pocketfi/internal/engine"
	"github.com/soyeahso/pocketfi/internal/logging"
	"github.com/soyeahso/pocketfi/internal/version"
)

var ErrClientClosed = errors.New("client connection closed")

const (
	handshakeDeadline = 10 * time.Second
	maxFrameBytes     = 1 << 20

	authFailWindow = 5 * time.Minute
	authFailLimit  = 10
)

// Server is the pocketfi gateway: a health endpoint plus a WebSocket RPC
// surface over one engine instance.
type Server struct {
	cfg      config.GatewayConfig
	network  string
	auth     ResolvedAuth
	engine   *engine.Engine
	log      *logging.Logger
	clients  *ClientRegistry
	handlers map[string]RequestHandler
	version  string

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader

	failMu    sync.Mutex
	authFails map[string][]time.Time
}

// New wires a server around eng. RPC handlers are registered up front so
// Methods() is complete before Start.
func New(cfg config.GatewayConfig, network string, eng *engine.Engine, log *logging.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		network:   network,
		auth:      ResolveAuth(cfg.Auth),
		engine:    eng,
		log:       log.Sub("gateway"),
		clients:   NewClientRegistry(log.Sub("clients")),
		handlers:  make(map[string]RequestHandler),
		version:   version.Version,
		authFails: make(map[string][]time.Time),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin,
		},
	}
	s.registerRPCHandlers()
	return s
}

// checkWebSocketOrigin rejects browser cross-origin upgrades. Non-browser
// clients send no Origin header.
func checkWebSocketOrigin(r *http.Request) bool {
	return r.Header.Get("Origin") == ""
}

// Handle registers an RPC method handler.
func (s *Server) Handle(method string, handler RequestHandler) {
	s.handlers[method] = handler
}

// Methods lists the registered RPC method names.
func (s *Server) Methods() []string {
	out := make([]string, 0, len(s.handlers))
	for m := range s.handlers {
		out = append(out, m)
	}
	return out
}

func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "loopback", "":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	}
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	mux := http.NewServeMux()
	s.registerHTTPRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      withMiddleware(mux, s.log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute, // chat.send can take a full model round-trip
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.startedAt = time.Now()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("network", s.network).
		Int("methods", len(s.handlers)).
		Msg("gateway ready")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("gateway shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.clients.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the configured listen address once Start has run.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

// authAllowed reports whether remoteAddr is under the failed-handshake
// limit, pruning entries older than the window as a side effect.
func (s *Server) authAllowed(remoteAddr string) bool {
	host := hostOnly(remoteAddr)

	s.failMu.Lock()
	defer s.failMu.Unlock()

	cutoff := time.Now().Add(-authFailWindow)
	kept := s.authFails[host][:0]
	for _, t := range s.authFails[host] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(s.authFails, host)
		return true
	}
	s.authFails[host] = kept
	return len(kept) < authFailLimit
}

func (s *Server) noteAuthFailure(remoteAddr string) {
	host := hostOnly(remoteAddr)
	s.failMu.Lock()
	s.authFails[host] = append(s.authFails[host], time.Now())
	s.failMu.Unlock()
}

func hostOnly(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
		return host
	}
	return remoteAddr
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authAllowed(r.RemoteAddr) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("too many failed handshakes")
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxFrameBytes)

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket connection opened")

	client, err := s.handshake(conn)
	if err != nil {
		s.log.Warn().Err(err).Msg("handshake failed")
		s.noteAuthFailure(conn.RemoteAddr().String())
		conn.Close()
		return
	}

	s.clients.Add(client)
	defer func() {
		s.clients.Remove(client.ConnID)
		client.Close()
	}()

	s.readLoop(client)
}

// handshake runs the connect sequence: the server pushes a challenge event,
// the client answers with a connect request, and on successful auth the
// server responds hello-ok.
func (s *Server) handshake(conn *websocket.Conn) (*Client, error) {
	conn.SetReadDeadline(time.Now().Add(handshakeDeadline))

	challenge, err := NewEvent("connect.challenge", map[string]any{
		"nonce": uuid.New().String(),
		"ts":    time.Now().UnixMilli(),
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("creating challenge: %w", err)
	}
	if err := conn.WriteJSON(challenge); err != nil {
		return nil, fmt.Errorf("sending challenge: %w", err)
	}

	frame, params, err := readConnect(conn)
	if err != nil {
		return nil, err
	}

	if res := Authorize(s.auth, params.Auth); !res.OK {
		sendErrorAndClose(conn, frame.ID, "unauthorized", res.Reason)
		return nil, fmt.Errorf("auth failed: %s", res.Reason)
	}

	conn.SetReadDeadline(time.Time{})
	client := NewClient(conn, params.Client, params.WalletAddress, s.log.Sub("ws"))

	hello := HelloOK{
		Protocol: ProtocolVersion,
		Server: ServerInfo{
			Version: s.version,
			Commit:  version.Commit,
			ConnID:  client.ConnID,
		},
		Features: Features{
			Methods: s.Methods(),
			Events:  []string{"connect.challenge"},
		},
		Network: s.network,
	}
	resp, err := NewResponse(frame.ID, hello)
	if err != nil {
		return nil, fmt.Errorf("creating hello response: %w", err)
	}
	if err := conn.WriteJSON(resp); err != nil {
		return nil, fmt.Errorf("sending hello: %w", err)
	}

	s.log.Info().
		Str("connId", client.ConnID).
		Str("clientId", params.Client.ID).
		Str("wallet", params.WalletAddress).
		Msg("client authenticated")
	return client, nil
}

func readConnect(conn *websocket.Conn) (Frame, ConnectParams, error) {
	var frame Frame
	var params ConnectParams

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return frame, params, fmt.Errorf("reading connect: %w", err)
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		return frame, params, fmt.Errorf("parsing connect frame: %w", err)
	}
	if frame.Type != FrameTypeRequest || frame.Method != "connect" {
		sendErrorAndClose(conn, frame.ID, "protocol_error", "expected connect request")
		return frame, params, fmt.Errorf("expected connect request, got type=%s method=%s", frame.Type, frame.Method)
	}
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		sendErrorAndClose(conn, frame.ID, "invalid_params", "invalid connect params")
		return frame, params, fmt.Errorf("parsing connect params: %w", err)
	}
	return frame, params, nil
}

func (s *Server) readLoop(client *Client) {
	for {
		frame, err := client.ReadFrame()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Str("connId", client.ConnID).Msg("client closed connection")
			} else {
				s.log.Warn().Err(err).Str("connId", client.ConnID).Msg("read error")
			}
			return
		}
		if frame.Type != FrameTypeRequest {
			s.log.Debug().Str("type", frame.Type).Msg("ignoring non-request frame")
			continue
		}
		s.dispatch(client, frame)
	}
}

func (s *Server) dispatch(client *Client, frame Frame) {
	handler, ok := s.handlers[frame.Method]
	if !ok {
		client.RespondError(frame.ID, ErrorShape{
			Code:    "method_not_found",
			Message: "unknown method: " + frame.Method,
		})
		return
	}
	handler(&RequestContext{Client: client, Frame: frame, Server: s})
}

func sendErrorAndClose(conn *websocket.Conn, reqID, code, message string) {
	conn.WriteJSON(NewErrorResponse(reqID, ErrorShape{Code: code, Message: message}))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, message))
}
