package controller

import (
	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITraceController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	GetById(ctx *fiber.Ctx) error
}

type traceController struct {
	service service.ITraceService
	auth    fiber.Handler
}

func NewTraceController(service service.ITraceService, auth fiber.Handler) ITraceController {
	return &traceController{service: service, auth: auth}
}

func (c *traceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/trace/v1")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Get(":id", c.GetById)
}

func (c *traceController) GetAll(ctx *fiber.Ctx) error {
	var req dto.ListTracesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all trace", res))
}

func (c *traceController) GetById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid trace id")
	}

	res, err := c.service.GetById(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get trace", res))
}
