package bootstrap

import (
	"context"
	"time"

	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/controller"
	"fin-analyst-be/internal/handler"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/repository/cache"
	"fin-analyst-be/internal/repository/implementation"
	"fin-analyst-be/internal/repository/memory"
	"fin-analyst-be/internal/service"
	"fin-analyst-be/internal/websocket"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/store"

	pktNats "fin-analyst-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	CompanyController  controller.ICompanyController
	DocumentController controller.IDocumentController
	// TraceController is nil without a database
	TraceController controller.ITraceController

	ChatHandler *handler.ChatHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Engine *Engine
	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the API. db may be nil when neither the postgres
// backends nor trace persistence are used.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production", cfg.App.LogLevel)
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			natsPub = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	// Redis
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL. Using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
			rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { rdb.Close() })
		}
	}

	// Sessions
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var sessions store.SessionStore = memory.NewSessionRepository(ttl)
	if cfg.Session.Store == "redis" {
		if rdb != nil {
			sessions = cache.NewSessionRepository(rdb, ttl)
		} else {
			sysLogger.Warn("BOOTSTRAP", "SESSION_STORE=redis but Redis is unavailable, using memory", nil)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Trace recorders
	recorders := executor.MultiRecorder{
		service.NewLogRecorder(sysLogger),
		c.WebSocketHub,
	}
	if db != nil {
		traceRepo := implementation.NewQueryTraceRepository(db)
		if cfg.Events.PersistTraces {
			recorders = append(recorders, service.NewRepositoryRecorder(traceRepo, sysLogger))
		}
		c.TraceController = controller.NewTraceController(service.NewTraceService(traceRepo), serverutils.JwtMiddleware(cfg.Auth.JWTSecret))
	}
	if natsPub != nil && cfg.Events.PublishTraces {
		recorders = append(recorders, service.NewEventRecorder(natsPub, sysLogger))
	}

	// 5. Engine
	engine, err := NewEngine(ctx, cfg, db, recorders, sysLogger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Engine = engine

	// 6. Services
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	analystService := service.NewAnalystService(engine.Orchestrator, sessions, sysLogger)
	companyService := service.NewCompanyService(engine.Data, engine.Retriever, cfg.Retrieval)
	publisherService := service.NewPublisherService(cfg.Events.IngestTopic, pubSub, cfg.Index.DocsDir)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Events.IngestTopic,
		engine.Builder,
		eventPublisher,
		sysLogger,
	)

	// 7. Controllers
	auth := serverutils.JwtMiddleware(cfg.Auth.JWTSecret)
	c.ChatController = controller.NewChatController(analystService, auth)
	c.CompanyController = controller.NewCompanyController(companyService, auth)
	c.DocumentController = controller.NewDocumentController(publisherService, engine.Index, auth)
	c.ChatHandler = handler.NewChatHandler(analystService, c.WebSocketHub, cfg.Auth.JWTSecret, wsLogger)

	return c, nil
}

// Close releases connections in reverse order of creation
func (c *Container) Close() {
	if c.Engine != nil {
		c.Engine.Close()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
