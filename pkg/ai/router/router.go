// Package router classifies a question into the SQL, RAG or BOTH pipeline.
package router

import (
	"context"
	"fmt"
	"strings"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/llm"
	"fin-analyst-be/pkg/llm/structured"
)

type Route string

const (
	RouteSQL  Route = "SQL"
	RouteRAG  Route = "RAG"
	RouteBoth Route = "BOTH"
)

// InvalidRouteReason replaces the model's reason when its answer is unusable
const InvalidRouteReason = "Invalid route returned; defaulting to RAG."

var schema = structured.MustSchema(decisionSchema)

// Decision is the outcome of routing one question
type Decision struct {
	Route  Route  `json:"route"`
	Reason string `json:"reason"`
	// Requested is what the model answered before policy was applied
	Requested string `json:"requested,omitempty"`
	// Overridden is set when the BOTH -> RAG correction fired
	Overridden bool `json:"overridden,omitempty"`
	// ParseError holds the decode failure when the model output was unusable
	ParseError string `json:"parse_error,omitempty"`
}

type Router struct {
	llm       llm.LLMProvider
	logger    logger.ILogger
	allowBoth bool
}

// NewRouter builds a Router. With allowBoth false a BOTH answer is treated
// like any other unaccepted route and defaults to RAG.
func NewRouter(provider llm.LLMProvider, log logger.ILogger, allowBoth bool) *Router {
	return &Router{
		llm:       provider,
		logger:    log,
		allowBoth: allowBoth,
	}
}

func (r *Router) accepted(route Route) bool {
	switch route {
	case RouteSQL, RouteRAG:
		return true
	case RouteBoth:
		return r.allowBoth
	}
	return false
}

func (r *Router) schemaHint() string {
	if r.allowBoth {
		return `"SQL" | "RAG" | "BOTH"`
	}
	return `"SQL" | "RAG"`
}

// Route asks the model for a route. Errors from the provider are returned;
// unusable model output is not an error and yields RAG.
func (r *Router) Route(ctx context.Context, question string) (*Decision, error) {
	raw, err := r.llm.Chat(ctx, []llm.Message{
		llm.System(systemPrompt),
		llm.User(fmt.Sprintf(userTemplate, question, r.schemaHint())),
	}, llm.WithTemperature(0), llm.WithJSON())
	if err != nil {
		return nil, fmt.Errorf("route classification: %w", err)
	}

	var out struct {
		Route  string `json:"route"`
		Reason string `json:"reason"`
	}
	if err := structured.Decode(raw, schema, &out); err != nil {
		r.logger.Warn("ROUTER", "Unparseable routing output, defaulting to RAG", map[string]interface{}{
			"raw":   logger.Truncate(raw, 200),
			"error": err.Error(),
		})
		return &Decision{Route: RouteRAG, Reason: InvalidRouteReason, ParseError: err.Error()}, nil
	}

	// route names are case-sensitive; "sql" is not a route
	requested := Route(out.Route)
	decision := &Decision{Route: requested, Reason: out.Reason, Requested: out.Route}

	if !r.accepted(requested) {
		r.logger.Warn("ROUTER", "Route not accepted, defaulting to RAG", map[string]interface{}{
			"requested": out.Route,
		})
		decision.Route = RouteRAG
		decision.Reason = InvalidRouteReason
		return decision, nil
	}

	if decision.Route == RouteBoth && ShouldForceRAG(question) {
		decision.Route = RouteRAG
		decision.Overridden = true
	}

	r.logger.Info("ROUTER", "Question routed", map[string]interface{}{
		"route":      decision.Route,
		"requested":  out.Route,
		"overridden": decision.Overridden,
	})
	return decision, nil
}

// ShouldForceRAG reports whether a question is narrative only: it carries a
// qualitative cue and no numeric cue.
func ShouldForceRAG(question string) bool {
	q := strings.ToLower(question)
	return containsAny(q, qualitativeKeywords) && !containsAny(q, numericKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
