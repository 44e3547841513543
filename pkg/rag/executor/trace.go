package executor

import (
	"context"
	"time"

	"fin-analyst-be/pkg/ai/router"
	"fin-analyst-be/pkg/rag/response"
)

// Source names which data the final answer came from
type Source string

const (
	SourceDB   Source = "db"
	SourcePDF  Source = "pdf"
	SourceBoth Source = "both"
)

// Stage is the furthest pipeline step a request reached
type Stage string

const (
	StageMemory        Stage = "memory"
	StageRouting       Stage = "routing"
	StageSQLGeneration Stage = "sql_generation"
	StageSQLExecution  Stage = "sql_execution"
	StageSQLRepair     Stage = "sql_repair"
	StageRetrieval     Stage = "retrieval"
	StageSynthesis     Stage = "synthesis"
	StageDone          Stage = "done"
)

// Trace is the audit record of one request. It is produced for failures too,
// with Error set and Stage naming where the request stopped.
type Trace struct {
	ID               string              `json:"id"`
	SessionID        string              `json:"session_id,omitempty"`
	Question         string              `json:"question"`
	ResolvedQuestion string              `json:"resolved_question"`
	Route            router.Route        `json:"route,omitempty"`
	Source           Source              `json:"source,omitempty"`
	SQL              string              `json:"sql,omitempty"`
	RepairedFrom     string              `json:"repaired_from,omitempty"`
	Citations        []response.Citation `json:"citations,omitempty"`
	RouteReason      string              `json:"route_reason"`
	RouteOverridden  bool                `json:"route_overridden,omitempty"`
	Stage            Stage               `json:"stage"`
	Error            string              `json:"error,omitempty"`
	StartedAt        time.Time           `json:"started_at"`
	DurationMs       int64               `json:"duration_ms"`
}

// TraceRecorder receives every finished trace. Recording is best effort and
// never changes the outcome of a request.
type TraceRecorder interface {
	Record(ctx context.Context, trace *Trace)
}

// RecorderFunc adapts a function to TraceRecorder
type RecorderFunc func(ctx context.Context, trace *Trace)

func (f RecorderFunc) Record(ctx context.Context, trace *Trace) {
	f(ctx, trace)
}

// MultiRecorder fans a trace out to several recorders in order
type MultiRecorder []TraceRecorder

func (m MultiRecorder) Record(ctx context.Context, trace *Trace) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, trace)
		}
	}
}
