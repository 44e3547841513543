package service

import (
	"context"
	"time"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/mapper"
	"fin-analyst-be/internal/repository/contract"
	"fin-analyst-be/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultTraceLimit = 50

type ITraceService interface {
	List(ctx context.Context, req *dto.ListTracesRequest) (*dto.ListTracesResponse, error)
	GetById(ctx context.Context, id uuid.UUID) (*dto.TraceResponse, error)
}

type traceService struct {
	repo   contract.QueryTraceRepository
	mapper *mapper.TraceMapper
}

func NewTraceService(repo contract.QueryTraceRepository) ITraceService {
	return &traceService{repo: repo, mapper: mapper.NewTraceMapper()}
}

func (s *traceService) List(ctx context.Context, req *dto.ListTracesRequest) (*dto.ListTracesResponse, error) {
	var filters []specification.Specification
	if req.SessionId != "" {
		filters = append(filters, specification.BySessionID{SessionID: req.SessionId})
	}
	if req.Route != "" {
		filters = append(filters, specification.ByRoute{Route: req.Route})
	}
	if req.FailedOnly {
		filters = append(filters, specification.FailedOnly{})
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "since must be an RFC 3339 timestamp")
		}
		filters = append(filters, specification.StartedAfter{Time: since})
	}

	total, err := s.repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultTraceLimit
	}
	specs := append(filters,
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	rows, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.ListTracesResponse{Total: total, Traces: make([]dto.TraceResponse, len(rows))}
	for i, row := range rows {
		res.Traces[i] = s.mapper.ModelToResponse(row)
	}
	return res, nil
}

func (s *traceService) GetById(ctx context.Context, id uuid.UUID) (*dto.TraceResponse, error) {
	row, err := s.repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "trace not found")
	}
	res := s.mapper.ModelToResponse(row)
	return &res, nil
}
