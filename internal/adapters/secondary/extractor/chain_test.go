package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// stubStrategy is a scripted extraction strategy for chain tests
type stubStrategy struct {
	name        string
	result      *ports.StrategyResult
	err         error
	calls       int
	budgetsSeen []int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(ctx context.Context, pdfBytes []byte, budget int) (*ports.StrategyResult, error) {
	s.calls++
	s.budgetsSeen = append(s.budgetsSeen, budget)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func textOfLength(n int) string {
	const prefix = "\n\n[Page 1]\n"
	return prefix + strings.Repeat("a", n-len(prefix))
}

func testConfig() entities.ExtractorConfig {
	return entities.ExtractorConfig{ChunkSize: 15000, MinContentLength: 100}
}

func TestChainExtractor_PrimarySufficient(t *testing.T) {
	primary := &stubStrategy{
		name:   "mupdf",
		result: &ports.StrategyResult{Text: textOfLength(500), Pages: 2},
	}
	fallback := &stubStrategy{name: "pdfreader"}

	chain := NewChainExtractor(testConfig(), primary, fallback)
	text, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, 500, text.Len())
	assert.Equal(t, 2, text.Pages)
	assert.Equal(t, "mupdf", text.Method)
	assert.Equal(t, 0, fallback.calls, "fallback must not run when primary suffices")
}

func TestChainExtractor_FallbackAppends(t *testing.T) {
	primary := &stubStrategy{
		name:   "mupdf",
		result: &ports.StrategyResult{Text: textOfLength(40), Pages: 1},
	}
	fallback := &stubStrategy{
		name:   "pdfreader",
		result: &ports.StrategyResult{Text: textOfLength(300), Pages: 3},
	}

	chain := NewChainExtractor(testConfig(), primary, fallback)
	text, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, 340, text.Len(), "fallback output appends to the primary's")
	assert.Equal(t, 4, text.Pages)
	assert.Equal(t, "mupdf+pdfreader", text.Method)

	// The fallback's budget is reduced by what the primary produced
	require.Len(t, fallback.budgetsSeen, 1)
	assert.Equal(t, 15000-40, fallback.budgetsSeen[0])
}

func TestChainExtractor_PrimaryErrorFallsBack(t *testing.T) {
	primary := &stubStrategy{name: "mupdf", err: errors.New("corrupt xref")}
	fallback := &stubStrategy{
		name:   "pdfreader",
		result: &ports.StrategyResult{Text: textOfLength(250), Pages: 2},
	}

	chain := NewChainExtractor(testConfig(), primary, fallback)
	text, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "pdfreader", text.Method)
	assert.Equal(t, 250, text.Len())
}

func TestChainExtractor_InsufficientYield(t *testing.T) {
	tests := []struct {
		name     string
		primary  *stubStrategy
		fallback *stubStrategy
	}{
		{
			name:     "both empty",
			primary:  &stubStrategy{name: "mupdf", result: &ports.StrategyResult{}},
			fallback: &stubStrategy{name: "pdfreader", result: &ports.StrategyResult{}},
		},
		{
			name:     "both error",
			primary:  &stubStrategy{name: "mupdf", err: errors.New("bad header")},
			fallback: &stubStrategy{name: "pdfreader", err: errors.New("bad header")},
		},
		{
			name:     "combined yield below minimum",
			primary:  &stubStrategy{name: "mupdf", result: &ports.StrategyResult{Text: textOfLength(30), Pages: 1}},
			fallback: &stubStrategy{name: "pdfreader", result: &ports.StrategyResult{Text: textOfLength(30), Pages: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChainExtractor(testConfig(), tt.primary, tt.fallback)
			text, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))

			require.Error(t, err)
			assert.Nil(t, text)
			assert.Contains(t, err.Error(), "document may be scanned")

			typ, ok := entities.ConversionTypeOf(err)
			require.True(t, ok)
			assert.Equal(t, entities.ErrorTypeExtraction, typ)
		})
	}
}

func TestChainExtractor_ExactMinimumSucceeds(t *testing.T) {
	primary := &stubStrategy{
		name:   "mupdf",
		result: &ports.StrategyResult{Text: textOfLength(100), Pages: 1},
	}

	chain := NewChainExtractor(testConfig(), primary)
	text, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, 100, text.Len())
}

func TestChainExtractor_TruncationPropagates(t *testing.T) {
	primary := &stubStrategy{
		name:   "mupdf",
		result: &ports.StrategyResult{Text: textOfLength(15200), Pages: 7, Truncated: true},
	}

	chain := NewChainExtractor(testConfig(), primary)
	text, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.True(t, text.Truncated)
}

func TestChainExtractor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &stubStrategy{name: "mupdf"}
	chain := NewChainExtractor(testConfig(), primary)

	_, err := chain.Extract(ctx, []byte("%PDF-1.4"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestChainExtractor_DefaultStrategies(t *testing.T) {
	chain := NewChainExtractor(entities.ExtractorConfig{})

	require.Len(t, chain.strategies, 2)
	assert.Equal(t, "mupdf", chain.strategies[0].Name())
	assert.Equal(t, "pdfreader", chain.strategies[1].Name())
	assert.Equal(t, 15000, chain.chunkSize)
	assert.Equal(t, 100, chain.minLength)
}
