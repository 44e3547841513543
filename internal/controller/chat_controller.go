package controller

import (
	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IAnalystService
	auth    fiber.Handler
}

func NewChatController(service service.IAnalystService, auth fiber.Handler) IChatController {
	return &chatController{service: service, auth: auth}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(c.auth)
	h.Post("session", c.CreateSession)
	h.Get("session/:id", c.ShowSession)
	h.Delete("session/:id", c.DeleteSession)
	h.Post("ask", c.Ask)
}

// userID is empty when the API runs without auth
func userID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals("user_id").(string)
	return id
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext(), userID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), userID(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.service.DeleteSession(ctx.UserContext(), userID(ctx), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), userID(ctx), &req)
	if err != nil {
		if res == nil || res.Trace == nil {
			return err
		}
		code := serverutils.StatusFor(err)
		return ctx.Status(code).JSON(serverutils.FailureResponse(code, err.Error(), res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}
