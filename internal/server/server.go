package server

import (
	"context"
	"log"
	"time"

	"fin-analyst-be/internal/bootstrap"
	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// answers can take several LLM round trips
const readTimeout = 2 * time.Minute

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "fin-analyst-be",
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
		ErrorHandler: serverutils.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: cfg.App.CorsAllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
	}))
	app.Use(otelfiber.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	})
	app.Get("/readyz", readiness(container))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// readiness reports 503 until the document index holds at least one chunk
func readiness(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		qctx, cancel := context.WithTimeout(ctx.UserContext(), 5*time.Second)
		defer cancel()

		n, err := c.Engine.Index.Count(qctx)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "index unavailable: "+err.Error())
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusServiceUnavailable, "index is empty")
		}
		return ctx.JSON(serverutils.SuccessResponse("ready", fiber.Map{"chunks": n}))
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.ChatController.RegisterRoutes(api)
	c.CompanyController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
	if c.TraceController != nil {
		c.TraceController.RegisterRoutes(api)
	}

	c.ChatHandler.RegisterRoutes(app)
}
