package domain

import "time"

// Response is the single structured answer the engine returns for every
// inbound message, direct or model-backed, success or failure.
type Response struct {
	Content      string       `json:"content"`
	ThreadID     string       `json:"threadId,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
	MessageKind  MessageKind  `json:"messageKind"`
	AnalysisKind AnalysisKind `json:"analysisKind"`
	IsDirect     bool         `json:"isDirect"`
	IsError      bool         `json:"error,omitempty"`
	ToolResults  []ToolResult `json:"toolResults,omitempty"`
}
