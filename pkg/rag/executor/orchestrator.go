// Package executor runs one question through memory, routing, the SQL
// and/or retrieval branch, and synthesis, and records a Trace for it.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/ai/router"
	"fin-analyst-be/pkg/conversation"
	"fin-analyst-be/pkg/rag/response"
	"fin-analyst-be/pkg/rag/retrieval"
	"fin-analyst-be/pkg/sqlagent"
	"fin-analyst-be/pkg/sqlengine"
	"fin-analyst-be/pkg/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrRepairFailed is returned when the repaired statement fails as well
var ErrRepairFailed = errors.New("sql still failing after repair")

// DefaultRetrievalK is the number of chunks the RAG and BOTH paths retrieve
const DefaultRetrievalK = 4

// Result is the response to one question
type Result struct {
	Final string           `json:"final"`
	Trace *Trace           `json:"trace"`
	Table *sqlengine.Table `json:"table,omitempty"`
}

type Orchestrator struct {
	memory     *conversation.Memory
	router     *router.Router
	sql        *sqlagent.Generator
	engine     sqlengine.Engine
	retriever  *retrieval.Coordinator
	synth      *response.Synthesizer
	recorder   TraceRecorder
	logger     logger.ILogger
	tracer     trace.Tracer
	retrievalK int
}

type Config struct {
	RetrievalK int
}

func NewOrchestrator(
	memory *conversation.Memory,
	rt *router.Router,
	sql *sqlagent.Generator,
	engine sqlengine.Engine,
	retriever *retrieval.Coordinator,
	synth *response.Synthesizer,
	recorder TraceRecorder,
	log logger.ILogger,
	cfg Config,
) *Orchestrator {
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = DefaultRetrievalK
	}
	return &Orchestrator{
		memory:     memory,
		router:     rt,
		sql:        sql,
		engine:     engine,
		retriever:  retriever,
		synth:      synth,
		recorder:   recorder,
		logger:     log,
		tracer:     otel.Tracer("fin-analyst-be/executor"),
		retrievalK: cfg.RetrievalK,
	}
}

// Answer runs the full pipeline for question within session. The caller must
// hold the session exclusively for the duration of the call. On failure the
// returned Result still carries the Trace.
func (o *Orchestrator) Answer(ctx context.Context, question string, session *store.Session) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.answer")
	defer span.End()

	tr := &Trace{
		ID:        uuid.NewString(),
		Question:  question,
		Stage:     StageMemory,
		StartedAt: time.Now(),
	}
	if session != nil {
		tr.SessionID = session.ID
	}

	resolved := o.memory.ResolveFollowup(question, session)
	o.memory.Remember(question, session)
	if session != nil {
		session.Touch(question)
	}
	tr.ResolvedQuestion = resolved

	tr.Stage = StageRouting
	decision, err := o.route(ctx, resolved)
	if err != nil {
		return o.fail(ctx, span, tr, err)
	}
	tr.Route = decision.Route
	tr.RouteReason = decision.Reason
	tr.RouteOverridden = decision.Overridden
	span.SetAttributes(attribute.String("route", string(decision.Route)))

	var result *Result
	switch decision.Route {
	case router.RouteSQL:
		result, err = o.answerSQL(ctx, resolved, tr)
	case router.RouteBoth:
		result, err = o.answerBoth(ctx, resolved, tr)
	default:
		result, err = o.answerRAG(ctx, resolved, tr)
	}
	if err != nil {
		return o.fail(ctx, span, tr, err)
	}

	tr.Stage = StageDone
	o.finish(ctx, tr)
	o.logger.Info("ORCHESTRATOR", "Question answered", map[string]interface{}{
		"trace_id":    tr.ID,
		"route":       tr.Route,
		"source":      tr.Source,
		"duration_ms": tr.DurationMs,
	})
	return result, nil
}

func (o *Orchestrator) route(ctx context.Context, question string) (*router.Decision, error) {
	ctx, span := o.tracer.Start(ctx, "router.route")
	defer span.End()
	return o.router.Route(ctx, question)
}

func (o *Orchestrator) answerSQL(ctx context.Context, question string, tr *Trace) (*Result, error) {
	tr.Source = SourceDB

	tr.Stage = StageSQLGeneration
	candidate, err := o.generate(ctx, question)
	if err != nil {
		return nil, err
	}
	tr.SQL = candidate.SQL

	tr.Stage = StageSQLExecution
	table, execErr := o.execute(ctx, candidate.SQL)
	if execErr == nil {
		return &Result{Final: table.Markdown(), Trace: tr, Table: table}, nil
	}

	o.logger.Warn("ORCHESTRATOR", "SQL failed, attempting one repair", map[string]interface{}{
		"trace_id": tr.ID,
		"sql":      candidate.SQL,
		"error":    execErr.Error(),
	})

	tr.Stage = StageSQLRepair
	tr.RepairedFrom = candidate.SQL
	repaired, err := o.repair(ctx, question, candidate.SQL, execErr.Error())
	if err != nil {
		return nil, err
	}
	tr.SQL = repaired.SQL

	tr.Stage = StageSQLExecution
	table, err = o.execute(ctx, repaired.SQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepairFailed, err)
	}
	return &Result{Final: table.Markdown(), Trace: tr, Table: table}, nil
}

func (o *Orchestrator) answerRAG(ctx context.Context, question string, tr *Trace) (*Result, error) {
	tr.Source = SourcePDF

	tr.Stage = StageRetrieval
	chunks, err := o.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	tr.Stage = StageSynthesis
	answer, err := o.synthesize(ctx, question, chunks)
	if err != nil {
		return nil, err
	}
	tr.Citations = answer.Citations
	return &Result{Final: answer.Text, Trace: tr}, nil
}

// answerBoth folds the table into the retrieval query. There is no repair on this path.
func (o *Orchestrator) answerBoth(ctx context.Context, question string, tr *Trace) (*Result, error) {
	tr.Source = SourceBoth

	tr.Stage = StageSQLGeneration
	candidate, err := o.generate(ctx, question)
	if err != nil {
		return nil, err
	}
	tr.SQL = candidate.SQL

	tr.Stage = StageSQLExecution
	table, err := o.execute(ctx, candidate.SQL)
	if err != nil {
		return nil, err
	}

	tr.Stage = StageRetrieval
	chunks, err := o.retrieve(ctx, fmt.Sprintf("%s\nStructured result:\n%s", question, table.String()))
	if err != nil {
		return nil, err
	}

	tr.Stage = StageSynthesis
	answer, err := o.synthesize(ctx, question, chunks)
	if err != nil {
		return nil, err
	}
	tr.Citations = answer.Citations

	final := fmt.Sprintf("**Database result:**\n%s\n\n**Document insight:**\n%s", table.Markdown(), answer.Text)
	return &Result{Final: final, Trace: tr, Table: table}, nil
}

func (o *Orchestrator) generate(ctx context.Context, question string) (*sqlagent.Candidate, error) {
	ctx, span := o.tracer.Start(ctx, "sql.generate")
	defer span.End()
	return o.sql.Generate(ctx, question)
}

func (o *Orchestrator) repair(ctx context.Context, question, badSQL, errMsg string) (*sqlagent.Candidate, error) {
	ctx, span := o.tracer.Start(ctx, "sql.repair")
	defer span.End()
	return o.sql.Repair(ctx, question, badSQL, errMsg)
}

func (o *Orchestrator) execute(ctx context.Context, query string) (*sqlengine.Table, error) {
	ctx, span := o.tracer.Start(ctx, "sql.execute", trace.WithAttributes(attribute.String("db.statement", query)))
	defer span.End()
	table, err := o.engine.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
	}
	return table, err
}

func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]store.Chunk, error) {
	ctx, span := o.tracer.Start(ctx, "retrieval.retrieve")
	defer span.End()
	chunks, err := o.retriever.Retrieve(ctx, query, o.retrievalK, "")
	span.SetAttributes(attribute.Int("chunks", len(chunks)))
	return chunks, err
}

func (o *Orchestrator) synthesize(ctx context.Context, question string, chunks []store.Chunk) (*response.Answer, error) {
	ctx, span := o.tracer.Start(ctx, "synthesis.answer")
	defer span.End()
	return o.synth.AnswerFromChunks(ctx, question, chunks)
}

func (o *Orchestrator) fail(ctx context.Context, span trace.Span, tr *Trace, err error) (*Result, error) {
	tr.Error = err.Error()
	span.RecordError(err)
	span.SetStatus(codes.Error, string(tr.Stage))
	o.finish(ctx, tr)

	o.logger.Error("ORCHESTRATOR", "Question failed", map[string]interface{}{
		"trace_id": tr.ID,
		"stage":    tr.Stage,
		"route":    tr.Route,
		"error":    err.Error(),
	})
	return &Result{Trace: tr}, err
}

func (o *Orchestrator) finish(ctx context.Context, tr *Trace) {
	tr.DurationMs = time.Since(tr.StartedAt).Milliseconds()
	if o.recorder != nil {
		o.recorder.Record(ctx, tr)
	}
}
