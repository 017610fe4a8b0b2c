package tool

import (
	"context"
	"sync"
	"time"

	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/logging"
)

// Executor runs tool calls against a registry. Calls attached to the same
// message run concurrently; one call's failure never aborts its siblings.
type Executor struct {
	registry *Registry
	timeout  time.Duration
	log      *logging.Logger
}

// NewExecutor creates an executor with a per-call timeout.
func NewExecutor(registry *Registry, timeout time.Duration, log *logging.Logger) *Executor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Executor{
		registry: registry,
		timeout:  timeout,
		log:      log.Sub("tool"),
	}
}

// Definitions returns the definitions of every registered tool.
func (e *Executor) Definitions() []Definition {
	return e.registry.Definitions()
}

// ExecuteOne runs a single tool call and always returns a populated result:
// either Result or Error is set. Timeouts are error results, not omissions.
func (e *Executor) ExecuteOne(ctx context.Context, call domain.ToolCall, caller Caller) domain.ToolResult {
	res := domain.ToolResult{ToolCallID: call.ID, Name: call.Name}

	t, err := e.registry.Get(call.Name)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	params, err := DecodeParams(t, call.Arguments)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	out, err := t.Execute(ctx, params, caller)
	if err != nil {
		e.log.Warn().Str("tool", call.Name).Err(err).Msg("tool execution failed")
		res.Error = err.Error()
		return res
	}

	e.log.Debug().Str("tool", call.Name).Dur("duration", time.Since(start)).Msg("tool executed")
	res.Result = out
	return res
}

// ExecuteAll runs every call and waits for all of them. Result order matches
// call order regardless of completion order.
func (e *Executor) ExecuteAll(ctx context.Context, calls []domain.ToolCall, caller Caller) []domain.ToolResult {
	if len(calls) == 0 {
		return nil
	}

	results := make([]domain.ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call domain.ToolCall) {
			defer wg.Done()
			results[i] = e.ExecuteOne(ctx, call, caller)
		}(i, call)
	}
	wg.Wait()
	return results
}
