package domain

// MessageKind is the coarse shape of an inbound message.
type MessageKind string

const (
	MessageKindCommand  MessageKind = "command"
	MessageKindQuestion MessageKind = "question"
	MessageKindCasual   MessageKind = "casual"
)

// AnalysisKind selects the prompt template used for the model call.
type AnalysisKind string

const (
	AnalysisGeneral   AnalysisKind = "general"
	AnalysisMarket    AnalysisKind = "market"
	AnalysisTechnical AnalysisKind = "technical"
)

// Classification is the classifier's verdict for one raw message.
type Classification struct {
	MessageKind  MessageKind  `json:"messageKind"`
	AnalysisKind AnalysisKind `json:"analysisKind"`
	Command      string       `json:"command,omitempty"`
	Parameters   string       `json:"parameters,omitempty"`
}
