package classify

import (
	"testing"

	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Command(t *testing.T) {
	c := Classify("/tx 0.1")
	assert.Equal(t, domain.MessageKindCommand, c.MessageKind)
	assert.Equal(t, "/tx", c.Command)
	assert.Equal(t, "0.1", c.Parameters)
}

func TestClassify_CommandCasingAndWhitespace(t *testing.T) {
	// equivalent casings/whitespace variants classify identically
	variants := []string{"/tx 0.1", "  /TX 0.1  ", "/Tx   0.1", "\t/tx 0.1\n"}
	for _, v := range variants {
		c := Classify(v)
		assert.Equal(t, domain.MessageKindCommand, c.MessageKind, v)
		assert.Equal(t, "/tx", c.Command, v)
		assert.Equal(t, "0.1", c.Parameters, v)
	}
}

func TestClassify_CommandMultiParam(t *testing.T) {
	c := Classify("/transfer  10   0xabc")
	assert.Equal(t, "/transfer", c.Command)
	assert.Equal(t, "10 0xabc", c.Parameters)
}

func TestClassify_Question(t *testing.T) {
	for _, text := range []string{
		"is this safe?",
		"How do I send USDC",
		"can you check my balance",
		"explain gas fees",
		"tell me about yields",
	} {
		c := Classify(text)
		assert.Equal(t, domain.MessageKindQuestion, c.MessageKind, text)
	}
}

func TestClassify_Casual(t *testing.T) {
	c := Classify("gm")
	assert.Equal(t, domain.MessageKindCasual, c.MessageKind)
	assert.Equal(t, domain.AnalysisGeneral, c.AnalysisKind)
}

func TestClassify_AnalysisKinds(t *testing.T) {
	tests := []struct {
		text string
		want domain.AnalysisKind
	}{
		{"what is the best APY right now", domain.AnalysisMarket},
		{"show me the price chart", domain.AnalysisMarket}, // market wins over technical
		{"run a technical analysis", domain.AnalysisTechnical},
		{"hello there", domain.AnalysisGeneral},
		{"/yields", domain.AnalysisMarket},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text).AnalysisKind, tt.text)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	a := Classify("What is farming? ")
	b := Classify("What is farming? ")
	assert.Equal(t, a, b)
}

func TestClassify_EmptyInput(t *testing.T) {
	c := Classify("")
	assert.Equal(t, domain.MessageKindCasual, c.MessageKind)
	assert.Empty(t, c.Command)
}
