package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/llm"
)

// PromptInput carries everything the pipeline needs to build a model request.
type PromptInput struct {
	AnalysisKind  domain.AnalysisKind
	CallerAddress string
	Network       domain.NetworkConfig
	ToolResults   []domain.ToolResult
	Checkpoint    string
}

// historyBudget is the default number of messages kept when trimming.
const defaultHistoryBudget = 20

// trimHistory keeps the most recent messages up to the budget. Callers that
// carry a leading system message keep it ahead of the budget.
func trimHistory(msgs []llm.Message, budget int) []llm.Message {
	if budget <= 0 {
		budget = defaultHistoryBudget
	}
	if len(msgs) == 0 {
		return msgs
	}

	var system []llm.Message
	rest := msgs
	if msgs[0].Role == llm.RoleSystem {
		system = msgs[:1]
		rest = msgs[1:]
	}

	if len(rest) > budget {
		rest = rest[len(rest)-budget:]
	}

	if len(system) == 0 {
		return rest
	}
	out := make([]llm.Message, 0, len(rest)+1)
	out = append(out, system...)
	return append(out, rest...)
}

// buildSystemPrompt selects the template for the analysis kind and embeds the
// caller address, network, and context blob.
func buildSystemPrompt(in PromptInput) string {
	var b strings.Builder

	switch in.AnalysisKind {
	case domain.AnalysisMarket:
		b.WriteString("You are a DeFi market analyst for a consumer wallet dashboard.\n")
		b.WriteString("Focus on prices, yields, and protocol health. Cite the figures from the context below rather than inventing numbers.\n")
	case domain.AnalysisTechnical:
		b.WriteString("You are a technical assistant for a consumer wallet dashboard.\n")
		b.WriteString("Explain on-chain mechanics, transactions, and addresses precisely and without hype.\n")
	default:
		b.WriteString("You are a helpful assistant for a consumer wallet dashboard.\n")
		b.WriteString("Answer plainly. Never ask the user for private keys or seed phrases.\n")
	}

	fmt.Fprintf(&b, "\nAnalysis kind: %s\n", in.AnalysisKind)
	fmt.Fprintf(&b, "Network: %s (chain %d, %s)\n", in.Network.NetworkName, in.Network.ChainID, in.Network.TokenSymbol)
	if in.CallerAddress != "" {
		fmt.Fprintf(&b, "Caller address: %s\n", in.CallerAddress)
	}

	blob := buildContextBlob(in)
	if blob != "" {
		b.WriteString("\nContext:\n")
		b.WriteString(blob)
	}

	return b.String()
}

// buildContextBlob serializes the checkpoint plus this turn's tool results.
// Each result appears as "toolCallId: result-or-error".
func buildContextBlob(in PromptInput) string {
	var b strings.Builder

	if in.Checkpoint != "" {
		b.WriteString(in.Checkpoint)
		b.WriteString("\n")
	}

	for _, tr := range in.ToolResults {
		if tr.Failed() {
			fmt.Fprintf(&b, "%s: error: %s\n", tr.ToolCallID, tr.Error)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", tr.ToolCallID, renderResult(tr.Result))
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderResult(v any) string {
	switch r := v.(type) {
	case nil:
		return "null"
	case string:
		return r
	default:
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Sprintf("%v", r)
		}
		return string(data)
	}
}

// checkpointFrom serializes the trimmed history the model just saw, so the
// next turn can resume from the same view after a clear or restart.
func checkpointFrom(msgs []llm.Message) string {
	if len(msgs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, m.Role+": "+firstLine(m.Content, 200))
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
