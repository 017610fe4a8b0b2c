// Package classify maps raw message text to a deterministic classification
// used for routing and prompt selection. It has no side effects.
package classify

import (
	"strings"

	"github.com/soyeahso/pocketfi/internal/domain"
)

// interrogativePrefixes mark a message as a question even without a "?".
var interrogativePrefixes = []string{
	"how", "what", "why", "when", "where", "who",
	"can you", "could you", "explain", "tell me", "show me",
}

// marketTerms and technicalTerms drive analysis-kind selection. Market and
// technical checks apply to every message kind; they only affect prompt
// routing, never the command/question/casual split.
var (
	marketTerms    = []string{"market", "price", "yield", "apy", "farming"}
	technicalTerms = []string{"technical", "analysis", "chart"}
)

// Classify is pure and deterministic for identical input.
func Classify(text string) domain.Classification {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	c := domain.Classification{
		MessageKind:  domain.MessageKindCasual,
		AnalysisKind: analysisKind(lower),
	}

	if strings.HasPrefix(lower, "/") {
		c.MessageKind = domain.MessageKindCommand
		fields := strings.Fields(lower)
		c.Command = fields[0]
		if len(fields) > 1 {
			c.Parameters = strings.Join(fields[1:], " ")
		}
		return c
	}

	if isQuestion(lower) {
		c.MessageKind = domain.MessageKindQuestion
	}
	return c
}

func isQuestion(lower string) bool {
	if strings.Contains(lower, "?") {
		return true
	}
	for _, p := range interrogativePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func analysisKind(lower string) domain.AnalysisKind {
	for _, term := range marketTerms {
		if strings.Contains(lower, term) {
			return domain.AnalysisMarket
		}
	}
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			return domain.AnalysisTechnical
		}
	}
	return domain.AnalysisGeneral
}
