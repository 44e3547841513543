package mapper

import (
	"encoding/json"
	"fmt"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/model"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/rag/response"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TraceMapper struct{}

func NewTraceMapper() *TraceMapper {
	return &TraceMapper{}
}

func (m *TraceMapper) TraceToModel(t *executor.Trace) (*model.QueryTrace, error) {
	if t == nil {
		return nil, nil
	}

	id, err := uuid.Parse(t.ID)
	if err != nil {
		return nil, fmt.Errorf("trace id %q: %w", t.ID, err)
	}

	var citations datatypes.JSON
	if len(t.Citations) > 0 {
		raw, err := json.Marshal(t.Citations)
		if err != nil {
			return nil, err
		}
		citations = datatypes.JSON(raw)
	}

	return &model.QueryTrace{
		Id:               id,
		SessionId:        t.SessionID,
		Question:         t.Question,
		ResolvedQuestion: t.ResolvedQuestion,
		Route:            string(t.Route),
		Source:           string(t.Source),
		Sql:              t.SQL,
		RepairedFrom:     t.RepairedFrom,
		Citations:        citations,
		RouteReason:      t.RouteReason,
		RouteOverridden:  t.RouteOverridden,
		Stage:            string(t.Stage),
		Error:            t.Error,
		DurationMs:       t.DurationMs,
		StartedAt:        t.StartedAt,
	}, nil
}

func (m *TraceMapper) ModelToResponse(t *model.QueryTrace) dto.TraceResponse {
	res := dto.TraceResponse{
		Id:               t.Id.String(),
		SessionId:        t.SessionId,
		Question:         t.Question,
		ResolvedQuestion: t.ResolvedQuestion,
		Route:            t.Route,
		Source:           t.Source,
		Sql:              t.Sql,
		RepairedFrom:     t.RepairedFrom,
		RouteReason:      t.RouteReason,
		RouteOverridden:  t.RouteOverridden,
		Stage:            t.Stage,
		Error:            t.Error,
		DurationMs:       t.DurationMs,
		StartedAt:        t.StartedAt,
	}
	if len(t.Citations) > 0 {
		var citations []response.Citation
		if err := json.Unmarshal(t.Citations, &citations); err == nil {
			res.Citations = citations
		}
	}
	return res
}
