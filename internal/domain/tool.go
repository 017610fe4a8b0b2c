package domain

// ToolCall is one requested tool invocation, produced while
// processing a single message and not persisted past it.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolResult is the outcome of exactly one ToolCall. Either Result or Error
// is set, never both.
type ToolResult struct {
	ToolCallID string         `json:"toolCallId"`
	Name       string         `json:"name"`
	Result     any            `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Failed reports whether the tool call ended in an error.
func (r ToolResult) Failed() bool { return r.Error != "" }
