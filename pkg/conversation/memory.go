// Package conversation keeps the per-session ticker context used to resolve
// follow-up questions ("What drove that growth?") against the company the user
// talked about last.
package conversation

import (
	"fmt"
	"regexp"
	"strings"

	"fin-analyst-be/pkg/store"
)

// DefaultTickers is the fixed set of tracked companies
var DefaultTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"}

// contextAnnotation is appended to questions that rely on a remembered ticker
const contextAnnotation = "%s (Company ticker context: %s)"

// Memory recognizes known tickers in free text
type Memory struct {
	tickers  []string
	patterns []*regexp.Regexp
}

// NewMemory builds a Memory over the given tickers, in priority order.
// With no tickers the DefaultTickers are used.
func NewMemory(tickers ...string) *Memory {
	if len(tickers) == 0 {
		tickers = DefaultTickers
	}

	m := &Memory{}
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		m.tickers = append(m.tickers, t)
		m.patterns = append(m.patterns, WordPattern(t))
	}
	return m
}

// Tickers returns the known tickers in priority order
func (m *Memory) Tickers() []string {
	out := make([]string, len(m.tickers))
	copy(out, m.tickers)
	return out
}

// ExtractTicker returns the first known ticker that appears in text as a
// whole word, case-insensitively. "TSLAX" or "metaverse" do not match.
func (m *Memory) ExtractTicker(text string) (string, bool) {
	for i, p := range m.patterns {
		if p.MatchString(text) {
			return m.tickers[i], true
		}
	}
	return "", false
}

// ResolveFollowup annotates a question that names no ticker with the last
// ticker remembered in the session. Questions naming a ticker come back unchanged.
func (m *Memory) ResolveFollowup(question string, session *store.Session) string {
	if session == nil || session.LastTicker == "" {
		return question
	}
	if _, ok := m.ExtractTicker(question); ok {
		return question
	}
	return fmt.Sprintf(contextAnnotation, question, session.LastTicker)
}

// Remember overwrites the session's last ticker when the original question names one.
// It reports the ticker that was stored, if any.
func (m *Memory) Remember(question string, session *store.Session) (string, bool) {
	if session == nil {
		return "", false
	}
	t, ok := m.ExtractTicker(question)
	if ok {
		session.LastTicker = t
	}
	return t, ok
}

// WordPattern compiles a case-insensitive whole-word matcher for word
func WordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

// ContainsWord reports whether word occurs in text as a whole word, ignoring case
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	return WordPattern(word).MatchString(text)
}
