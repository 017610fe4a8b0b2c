package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/soyeahso/pocketfi/internal/store"
	"github.com/soyeahso/pocketfi/internal/tool"
)

// chatTimeout is the maximum duration for processing one inbound message,
// including tool execution and the model call.
const chatTimeout = 2 * time.Minute

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("/", handleNotFound)
}

// registerRPCHandlers sets up all WebSocket method handlers.
func (s *Server) registerRPCHandlers() {
	s.Handle("health", s.rpcHealth)
	s.Handle("chat.send", s.rpcChatSend)
	s.Handle("threads.list", s.rpcThreadsList)
	s.Handle("threads.create", s.rpcThreadsCreate)
	s.Handle("threads.switch", s.rpcThreadsSwitch)
	s.Handle("threads.clear", s.rpcThreadsClear)
	s.Handle("threads.delete", s.rpcThreadsDelete)
	s.Handle("messages.delete", s.rpcMessagesDelete)
	s.Handle("history.get", s.rpcHistoryGet)
	s.Handle("tools.list", s.rpcToolsList)
}

func (s *Server) rpcHealth(rc *RequestContext) {
	rc.Respond(HealthResponse{
		Status:  "ok",
		Version: s.version,
		Network: s.network,
		Clients: s.clients.Count(),
	})
}

type chatSendParams struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
	Address  string `json:"address,omitempty"` // overrides the connect-time wallet
}

func (s *Server) rpcChatSend(rc *RequestContext) {
	var p chatSendParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.Message == "" {
		rc.RespondError("invalid_params", "message is required")
		return
	}

	caller := tool.Caller{Address: rc.Client.WalletAddress}
	if p.Address != "" {
		caller.Address = p.Address
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	resp, err := s.engine.SendMessage(ctx, p.ThreadID, p.Message, caller)
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			rc.RespondError("not_found", "thread not found: "+p.ThreadID)
			return
		}
		rc.RespondError("engine_error", err.Error())
		return
	}

	rc.Respond(resp)
}

func (s *Server) rpcThreadsList(rc *RequestContext) {
	threads, err := s.engine.Threads()
	if err != nil {
		rc.RespondError("engine_error", err.Error())
		return
	}
	rc.Respond(map[string]any{
		"threads":  threads,
		"activeId": s.engine.ActiveThreadID(),
	})
}

type threadsCreateParams struct {
	Title string `json:"title,omitempty"`
}

func (s *Server) rpcThreadsCreate(rc *RequestContext) {
	var p threadsCreateParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	thread, err := s.engine.CreateThread(p.Title)
	if err != nil {
		rc.RespondError("engine_error", err.Error())
		return
	}
	rc.Respond(thread)
}

type threadIDParams struct {
	ThreadID string `json:"threadId"`
}

func (rc *RequestContext) threadID() (string, bool) {
	var p threadIDParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return "", false
	}
	if p.ThreadID == "" {
		rc.RespondError("invalid_params", "threadId is required")
		return "", false
	}
	return p.ThreadID, true
}

func (s *Server) rpcThreadsSwitch(rc *RequestContext) {
	id, ok := rc.threadID()
	if !ok {
		return
	}
	if err := s.engine.SwitchThread(id); err != nil {
		rc.RespondError("not_found", err.Error())
		return
	}
	rc.Respond(map[string]any{"activeId": id})
}

func (s *Server) rpcThreadsClear(rc *RequestContext) {
	id, ok := rc.threadID()
	if !ok {
		return
	}
	if err := s.engine.ClearThread(id); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			rc.RespondError("not_found", err.Error())
			return
		}
		rc.RespondError("engine_error", err.Error())
		return
	}
	rc.Respond(map[string]any{"cleared": id})
}

func (s *Server) rpcThreadsDelete(rc *RequestContext) {
	id, ok := rc.threadID()
	if !ok {
		return
	}
	if err := s.engine.DeleteThread(id); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			rc.RespondError("not_found", err.Error())
			return
		}
		rc.RespondError("engine_error", err.Error())
		return
	}
	rc.Respond(map[string]any{
		"deleted":  id,
		"activeId": s.engine.ActiveThreadID(),
	})
}

type messagesDeleteParams struct {
	ThreadID   string   `json:"threadId"`
	MessageIDs []string `json:"messageIds"`
}

func (s *Server) rpcMessagesDelete(rc *RequestContext) {
	var p messagesDeleteParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.ThreadID == "" {
		rc.RespondError("invalid_params", "threadId is required")
		return
	}
	if err := s.engine.DeleteMessages(p.ThreadID, p.MessageIDs); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			rc.RespondError("not_found", err.Error())
			return
		}
		rc.RespondError("engine_error", err.Error())
		return
	}
	rc.Respond(map[string]any{"deleted": len(p.MessageIDs)})
}

func (s *Server) rpcHistoryGet(rc *RequestContext) {
	id, ok := rc.threadID()
	if !ok {
		return
	}
	msgs, err := s.engine.GetHistory(id)
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			rc.RespondError("not_found", err.Error())
			return
		}
		rc.RespondError("engine_error", err.Error())
		return
	}
	rc.Respond(map[string]any{"threadId": id, "messages": msgs})
}

func (s *Server) rpcToolsList(rc *RequestContext) {
	rc.Respond(map[string]any{"tools": s.engine.ToolDefinitions()})
}
