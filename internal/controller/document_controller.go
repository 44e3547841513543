package controller

import (
	"context"
	"strings"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/repository/specification"
	"fin-analyst-be/internal/service"
	"fin-analyst-be/pkg/vectorindex"

	"github.com/gofiber/fiber/v2"
)

// tickerCounter is implemented by indexes that can count chunks per company
type tickerCounter interface {
	CountBy(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type documentController struct {
	publisher service.IPublisherService
	index     vectorindex.Index
	auth      fiber.Handler
}

func NewDocumentController(publisher service.IPublisherService, index vectorindex.Index, auth fiber.Handler) IDocumentController {
	return &documentController{publisher: publisher, index: index, auth: auth}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(c.auth)
	h.Post("ingest", c.Ingest)
	h.Get("stats", c.Stats)
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.publisher.EnqueueIngest(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Ingest job queued", res))
}

func (c *documentController) Stats(ctx *fiber.Ctx) error {
	ticker := strings.ToUpper(strings.TrimSpace(ctx.Query("ticker")))
	if ticker == "" {
		n, err := c.index.Count(ctx.UserContext())
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success get index stats", dto.IndexStatsResponse{Chunks: n}))
	}

	counter, ok := c.index.(tickerCounter)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "per-ticker stats need the pgvector index")
	}
	n, err := counter.CountBy(ctx.UserContext(), specification.ByTicker{Ticker: ticker})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get index stats", dto.IndexStatsResponse{
		Ticker: ticker,
		Chunks: int(n),
	}))
}
