// Package response turns retrieved chunks into a cited, per-company answer.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/llm"
	"fin-analyst-be/pkg/llm/structured"
	"fin-analyst-be/pkg/store"
)

var ErrSynthesisParse = errors.New("answer synthesis output unparseable")

// NoEvidence is rendered for a section without bullets
const NoEvidence = "No relevant evidence in provided chunks."

var schema = structured.MustSchema(answerSchema)

type Synthesizer struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

func NewSynthesizer(provider llm.LLMProvider, log logger.ILogger) *Synthesizer {
	return &Synthesizer{llm: provider, logger: log}
}

// AnswerFromChunks asks the model for a sectioned answer grounded only in
// chunks and renders it. Citations cover every supplied chunk.
func (s *Synthesizer) AnswerFromChunks(ctx context.Context, question string, chunks []store.Chunk) (*Answer, error) {
	citations := make([]Citation, len(chunks))
	blocks := make([]string, len(chunks))
	var tickers []string
	seen := make(map[string]bool)

	for i, c := range chunks {
		n := i + 1
		ticker := c.TickerLabel()
		if !seen[ticker] {
			seen[ticker] = true
			tickers = append(tickers, ticker)
		}
		blocks[i] = fmt.Sprintf("[%d] (ticker=%s, source=%s, page=%s)\n%s",
			n, ticker, c.SourceLabel(), c.PageLabel(), c.Content)
		citations[i] = Citation{Chunk: n, Source: c.SourceLabel(), Page: c.Page}
	}

	tickerList, _ := json.Marshal(tickers)
	if tickers == nil {
		tickerList = []byte("[]")
	}

	raw, err := s.llm.Chat(ctx, []llm.Message{
		llm.System(systemPrompt),
		llm.User(fmt.Sprintf(userTemplate, question, tickerList, strings.Join(blocks, "\n\n"))),
	}, llm.WithTemperature(0), llm.WithMaxTokens(2048), llm.WithJSON())
	if err != nil {
		return nil, fmt.Errorf("answer synthesis: %w", err)
	}

	var out struct {
		Sections []Section `json:"sections"`
	}
	if err := structured.Decode(raw, schema, &out); err != nil {
		s.logger.Error("SYNTHESIS", "Unparseable synthesis output", map[string]interface{}{
			"raw":   logger.Truncate(raw, 300),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrSynthesisParse, err)
	}

	s.logger.Info("SYNTHESIS", "Answer synthesized", map[string]interface{}{
		"chunks":   len(chunks),
		"tickers":  tickers,
		"sections": len(out.Sections),
	})

	return &Answer{
		Text:      Render(out.Sections),
		Sections:  out.Sections,
		Citations: citations,
	}, nil
}

// Render formats sections deterministically
func Render(sections []Section) string {
	var lines []string
	for _, sec := range sections {
		ticker := sec.Ticker
		if ticker == "" {
			ticker = store.Unknown
		}
		source := sec.Source
		if source == "" {
			source = store.Unknown
		}

		lines = append(lines, fmt.Sprintf("From %s (%s):", ticker, source))
		if len(sec.Bullets) == 0 {
			lines = append(lines, NoEvidence)
		}
		for _, b := range sec.Bullets {
			var cites strings.Builder
			for _, c := range b.Cites {
				cites.WriteString("[" + string(c) + "]")
			}
			lines = append(lines, fmt.Sprintf("• %s %s (evidence: \"%s\")", strings.TrimSpace(b.Text), cites.String(), b.Evidence))
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
