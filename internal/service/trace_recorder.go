package service

import (
	"context"
	"encoding/json"

	"fin-analyst-be/internal/mapper"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/internal/repository/contract"
	"fin-analyst-be/pkg/events"
	"fin-analyst-be/pkg/rag/executor"
)

// EventPublisher is the outbound side of the event bus
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// NewLogRecorder writes a one-line summary of every trace
func NewLogRecorder(log logger.ILogger) executor.TraceRecorder {
	return executor.RecorderFunc(func(ctx context.Context, t *executor.Trace) {
		details := map[string]interface{}{
			"trace_id":     t.ID,
			"session_id":   t.SessionID,
			"route":        t.Route,
			"source":       t.Source,
			"stage":        t.Stage,
			"route_reason": t.RouteReason,
			"duration_ms":  t.DurationMs,
		}
		if t.SQL != "" {
			details["sql"] = logger.Truncate(t.SQL, 300)
		}
		if t.Error != "" {
			details["error"] = t.Error
			log.Warn("TRACE", "Question failed", details)
			return
		}
		log.Info("TRACE", "Question traced", details)
	})
}

// NewRepositoryRecorder persists traces to Postgres
func NewRepositoryRecorder(repo contract.QueryTraceRepository, log logger.ILogger) executor.TraceRecorder {
	m := mapper.NewTraceMapper()
	return executor.RecorderFunc(func(ctx context.Context, t *executor.Trace) {
		row, err := m.TraceToModel(t)
		if err == nil {
			err = repo.Create(ctx, row)
		}
		if err != nil {
			log.Error("TRACE", "Failed to persist trace", map[string]interface{}{
				"trace_id": t.ID,
				"error":    err.Error(),
			})
		}
	})
}

// NewEventRecorder publishes every trace as a QUERY_TRACED event
func NewEventRecorder(pub EventPublisher, log logger.ILogger) executor.TraceRecorder {
	return executor.RecorderFunc(func(ctx context.Context, t *executor.Trace) {
		payload, err := tracePayload(t)
		if err == nil {
			err = pub.Publish(ctx, events.New(events.QueryTraced, payload))
		}
		if err != nil {
			log.Warn("TRACE", "Failed to publish trace event", map[string]interface{}{
				"trace_id": t.ID,
				"error":    err.Error(),
			})
		}
	})
}

func tracePayload(t *executor.Trace) (map[string]interface{}, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
