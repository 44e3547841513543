package serverutils

import (
	"errors"

	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/rag/response"
	"fin-analyst-be/pkg/rag/retrieval"
	"fin-analyst-be/pkg/sqlagent"
	"fin-analyst-be/pkg/sqlengine"
	"fin-analyst-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps pipeline errors to HTTP status codes
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, store.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, sqlagent.ErrSQLGeneration),
		errors.Is(err, executor.ErrRepairFailed),
		errors.Is(err, sqlengine.ErrExecution):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, retrieval.ErrRetrieval),
		errors.Is(err, response.ErrSynthesisParse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the
// standard envelope
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// ErrorHandler is the app-level fallback for errors raised outside the
// middleware chain, such as unknown routes and recovered panics
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := StatusFor(err)
	return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
}
