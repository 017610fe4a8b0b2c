// Package engine orchestrates the conversational command path: classify,
// route, execute tools, invoke the model, and persist the turn.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/soyeahso/pocketfi/internal/classify"
	"github.com/soyeahso/pocketfi/internal/config"
	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/llm"
	"github.com/soyeahso/pocketfi/internal/logging"
	"github.com/soyeahso/pocketfi/internal/router"
	"github.com/soyeahso/pocketfi/internal/store"
	"github.com/soyeahso/pocketfi/internal/tool"
)

// Options bundles the configuration slices the engine reads.
type Options struct {
	Engine  config.EngineConfig
	LLM     config.LLMConfig
	Network domain.NetworkConfig
}

// Engine is the conversational command engine. One instance per process,
// constructed explicitly and passed to every caller.
type Engine struct {
	opts    Options
	threads *store.ThreadStore
	router  *router.Router
	exec    *tool.Executor
	model   llm.Client
	log     *logging.Logger

	mu       sync.Mutex // guards activeID
	activeID string

	turnLocks sync.Map // threadID -> *sync.Mutex
}

// New creates an engine. All collaborators are injected; there is no global
// instance.
func New(
	opts Options,
	threads *store.ThreadStore,
	rtr *router.Router,
	exec *tool.Executor,
	model llm.Client,
	log *logging.Logger,
) *Engine {
	return &Engine{
		opts:    opts,
		threads: threads,
		router:  rtr,
		exec:    exec,
		model:   model,
		log:     log.Sub("engine"),
	}
}

// Classify exposes the message classifier.
func (e *Engine) Classify(text string) domain.Classification {
	return classify.Classify(text)
}

// Route exposes the command router.
func (e *Engine) Route(c domain.Classification, text string) router.Route {
	return e.router.Route(c, text)
}

// ExecuteTool runs a single named tool with the given arguments.
func (e *Engine) ExecuteTool(ctx context.Context, name string, args map[string]any, caller tool.Caller) domain.ToolResult {
	call := domain.ToolCall{ID: name, Name: name, Arguments: args}
	return e.exec.ExecuteOne(ctx, call, caller)
}

// SendMessage processes one inbound message end to end and always returns a
// well-formed response. Model and tool failures surface as content with the
// error flag set, never as a returned error; only state corruption fails.
func (e *Engine) SendMessage(ctx context.Context, threadID, text string, caller tool.Caller) (*domain.Response, error) {
	id, err := e.resolveThread(threadID, text)
	if err != nil {
		return nil, err
	}

	// One in-flight turn per thread
	lockAny, _ := e.turnLocks.LoadOrStore(id, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	c := classify.Classify(text)
	route := e.router.Route(c, text)

	e.log.Info().
		Str("thread", id).
		Str("kind", string(c.MessageKind)).
		Str("command", c.Command).
		Int("toolCalls", len(route.ToolCalls)).
		Msg("processing message")

	if _, err := e.threads.AppendMessage(id, domain.RoleUser, text); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			return nil, &StateCorruptionError{ThreadID: id, Op: "append user message", Err: err}
		}
		return nil, fmt.Errorf("recording user message: %w", err)
	}

	resp := &domain.Response{
		ThreadID:     id,
		Timestamp:    time.Now(),
		MessageKind:  c.MessageKind,
		AnalysisKind: c.AnalysisKind,
	}

	// Direct commands bypass tools and the model entirely
	if route.IsDirect() {
		resp.Content = route.Direct
		resp.IsDirect = true
		if _, err := e.threads.AppendMessage(id, domain.RoleAssistant, resp.Content); err != nil {
			return nil, &StateCorruptionError{ThreadID: id, Op: "append assistant message", Err: err}
		}
		return resp, nil
	}

	// Run every attached tool call and wait for all of them
	results := e.exec.ExecuteAll(ctx, route.ToolCalls, caller)
	resp.ToolResults = results

	content, modelErr := e.invokeModel(ctx, id, caller, c, results)
	if modelErr != nil {
		e.log.Warn().Err(modelErr).Str("thread", id).Msg("model invocation failed, using fallback")
		content = fallbackMessage()
		resp.IsError = true
	}
	resp.Content = content

	if _, err := e.threads.AppendMessage(id, domain.RoleAssistant, content); err != nil {
		return nil, &StateCorruptionError{ThreadID: id, Op: "append assistant message", Err: err}
	}
	return resp, nil
}

// invokeModel builds the trimmed prompt, calls the backend, and persists the
// checkpoint on success.
func (e *Engine) invokeModel(
	ctx context.Context,
	threadID string,
	caller tool.Caller,
	c domain.Classification,
	results []domain.ToolResult,
) (string, error) {
	history, err := e.threads.History(threadID)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	checkpoint, err := e.threads.Checkpoint(threadID)
	if err != nil {
		return "", fmt.Errorf("loading checkpoint: %w", err)
	}

	system := buildSystemPrompt(PromptInput{
		AnalysisKind:  c.AnalysisKind,
		CallerAddress: caller.Address,
		Network:       e.opts.Network,
		ToolResults:   results,
		Checkpoint:    checkpoint,
	})

	msgs := make([]llm.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	msgs = trimHistory(msgs, e.opts.Engine.HistoryBudget)

	req := llm.CompletionRequest{
		Model:       e.opts.LLM.Model,
		System:      system,
		Messages:    msgs,
		MaxTokens:   e.opts.LLM.MaxTokens,
		Temperature: e.opts.LLM.Temperature,
	}

	completion, err := e.model.Complete(ctx, req)
	if err != nil {
		return "", &ModelInvocationError{Provider: e.model.Name(), Err: err}
	}
	if completion.Content == "" {
		return "", &ModelInvocationError{Provider: e.model.Name()}
	}

	withReply := append(msgs, llm.Message{Role: llm.RoleAssistant, Content: completion.Content})
	if err := e.threads.SaveCheckpoint(threadID, checkpointFrom(withReply)); err != nil {
		e.log.Warn().Err(err).Str("thread", threadID).Msg("failed to save checkpoint")
	}

	return completion.Content, nil
}

// fallbackMessage is returned when the model backend is unreachable. The
// deterministic commands still work, so it lists them.
func fallbackMessage() string {
	return "The assistant is temporarily unavailable. Slash commands still work:\n\n" + router.HelpText()
}

// resolveThread picks the thread for a message: the explicit ID when given,
// otherwise the active thread, creating one titled from the message if none
// exists yet.
func (e *Engine) resolveThread(threadID, text string) (string, error) {
	if threadID != "" {
		if _, err := e.threads.GetThread(threadID); err != nil {
			return "", err
		}
		e.mu.Lock()
		e.activeID = threadID
		e.mu.Unlock()
		return threadID, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeID != "" {
		if _, err := e.threads.GetThread(e.activeID); err == nil {
			return e.activeID, nil
		}
		e.activeID = ""
	}

	t, err := e.threads.CreateThread(domain.DeriveTitle(text))
	if err != nil {
		return "", err
	}
	e.activeID = t.ID
	return t.ID, nil
}

// CreateThread allocates a new empty thread and makes it active.
func (e *Engine) CreateThread(title string) (*domain.Thread, error) {
	t, err := e.threads.CreateThread(title)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.activeID = t.ID
	e.mu.Unlock()
	return t, nil
}

// SwitchThread changes the active thread pointer without mutating any thread.
func (e *Engine) SwitchThread(id string) error {
	if _, err := e.threads.GetThread(id); err != nil {
		return err
	}
	e.mu.Lock()
	e.activeID = id
	e.mu.Unlock()
	return nil
}

// ActiveThreadID returns the current active thread, or "" when none is set.
func (e *Engine) ActiveThreadID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// ClearThread removes a thread's messages and model checkpoint while keeping
// the thread record. Clearing twice is the same as clearing once.
func (e *Engine) ClearThread(id string) error {
	return e.threads.ClearThread(id)
}

// DeleteThread removes a thread entirely. Deleting the active thread moves
// activation to the most recently created remaining thread, or to none.
func (e *Engine) DeleteThread(id string) error {
	if err := e.threads.DeleteThread(id); err != nil {
		return err
	}
	e.turnLocks.Delete(id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeID != id {
		return nil
	}

	next, err := e.threads.MostRecentThread()
	if err != nil {
		return err
	}
	if next == nil {
		e.activeID = ""
		return nil
	}
	e.activeID = next.ID
	return nil
}

// DeleteMessages removes specific messages from a thread.
func (e *Engine) DeleteMessages(threadID string, messageIDs []string) error {
	return e.threads.DeleteMessages(threadID, messageIDs)
}

// Threads lists all threads, most recently created first.
func (e *Engine) Threads() ([]*domain.Thread, error) {
	return e.threads.ListThreads()
}

// GetHistory returns a thread's messages in order.
func (e *Engine) GetHistory(threadID string) ([]domain.Message, error) {
	return e.threads.History(threadID)
}

// ToolDefinitions describes every registered tool.
func (e *Engine) ToolDefinitions() []tool.Definition {
	return e.exec.Definitions()
}

// ModelHealthy probes the language-model backend.
func (e *Engine) ModelHealthy(ctx context.Context) error {
	return llm.Healthy(ctx, e.model)
}
