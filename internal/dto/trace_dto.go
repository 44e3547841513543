package dto

import (
	"time"

	"fin-analyst-be/pkg/rag/response"
)

type ListTracesRequest struct {
	SessionId  string `query:"session_id" validate:"omitempty,max=64"`
	Route      string `query:"route" validate:"omitempty,oneof=SQL RAG BOTH"`
	FailedOnly bool   `query:"failed_only"`
	Since      string `query:"since"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset     int    `query:"offset" validate:"omitempty,min=0"`
}

type TraceResponse struct {
	Id               string              `json:"id"`
	SessionId        string              `json:"session_id,omitempty"`
	Question         string              `json:"question"`
	ResolvedQuestion string              `json:"resolved_question"`
	Route            string              `json:"route,omitempty"`
	Source           string              `json:"source,omitempty"`
	Sql              string              `json:"sql,omitempty"`
	RepairedFrom     string              `json:"repaired_from,omitempty"`
	Citations        []response.Citation `json:"citations,omitempty"`
	RouteReason      string              `json:"route_reason"`
	RouteOverridden  bool                `json:"route_overridden,omitempty"`
	Stage            string              `json:"stage"`
	Error            string              `json:"error,omitempty"`
	DurationMs       int64               `json:"duration_ms"`
	StartedAt        time.Time           `json:"started_at"`
}

type ListTracesResponse struct {
	Total  int64           `json:"total"`
	Traces []TraceResponse `json:"traces"`
}
