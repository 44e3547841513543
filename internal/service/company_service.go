package service

import (
	"context"

	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/mapper"
	"fin-analyst-be/pkg/rag/retrieval"
	"fin-analyst-be/pkg/sqlengine"

	"github.com/gofiber/fiber/v2"
)

type ICompanyService interface {
	List(ctx context.Context) ([]dto.CompanyResponse, error)
	LookupTicker(ctx context.Context, name string) (*dto.TickerLookupResponse, error)
	RetrieveForCompany(ctx context.Context, req *dto.CompanyRetrievalRequest) (*dto.CompanyRetrievalResponse, error)
}

type companyService struct {
	directory sqlengine.Directory
	retriever *retrieval.Coordinator
	cfg       config.RetrievalConfig
}

func NewCompanyService(directory sqlengine.Directory, retriever *retrieval.Coordinator, cfg config.RetrievalConfig) ICompanyService {
	return &companyService{directory: directory, retriever: retriever, cfg: cfg}
}

func (s *companyService) List(ctx context.Context) ([]dto.CompanyResponse, error) {
	companies, err := s.directory.Companies(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]dto.CompanyResponse, len(companies))
	for i, c := range companies {
		res[i] = mapper.CompanyToResponse(c)
	}
	return res, nil
}

func (s *companyService) LookupTicker(ctx context.Context, name string) (*dto.TickerLookupResponse, error) {
	ticker, ok, err := s.directory.TickerForCompany(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "No company matches "+name)
	}
	return &dto.TickerLookupResponse{Name: name, Ticker: ticker}, nil
}

func (s *companyService) RetrieveForCompany(ctx context.Context, req *dto.CompanyRetrievalRequest) (*dto.CompanyRetrievalResponse, error) {
	k := req.K
	if k == 0 {
		k = s.cfg.K
	}
	globalK := req.GlobalK
	if globalK == 0 {
		globalK = s.cfg.GlobalK
	}

	chunks, info, err := s.retriever.RetrieveSemanticCompany(ctx, req.Query, k, globalK)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyRetrievalResponse{
		Mode:         info.Mode,
		TargetTicker: info.TargetTicker,
		Chunks:       chunks,
	}, nil
}
