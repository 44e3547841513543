package controller

import (
	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICompanyController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Lookup(ctx *fiber.Ctx) error
	Retrieve(ctx *fiber.Ctx) error
}

type companyController struct {
	service service.ICompanyService
	auth    fiber.Handler
}

func NewCompanyController(service service.ICompanyService, auth fiber.Handler) ICompanyController {
	return &companyController{service: service, auth: auth}
}

func (c *companyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/company/v1")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Get("lookup", c.Lookup)

	rv := r.Group("/retrieval/v1")
	rv.Use(c.auth)
	rv.Post("company", c.Retrieve)
}

func (c *companyController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all company", res))
}

func (c *companyController) Lookup(ctx *fiber.Ctx) error {
	name := ctx.Query("name")
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	res, err := c.service.LookupTicker(ctx.UserContext(), name)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success lookup ticker", res))
}

func (c *companyController) Retrieve(ctx *fiber.Ctx) error {
	var req dto.CompanyRetrievalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RetrieveForCompany(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success retrieve company chunks", res))
}
