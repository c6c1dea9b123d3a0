package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jadwalin/realtime-gateway/internal/pkg/config"
	"github.com/jadwalin/realtime-gateway/internal/pkg/database"
	jwtpkg "github.com/jadwalin/realtime-gateway/internal/pkg/jwt"
	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/middleware"
	natspkg "github.com/jadwalin/realtime-gateway/internal/pkg/nats"
	"github.com/jadwalin/realtime-gateway/internal/pkg/server"
	wspkg "github.com/jadwalin/realtime-gateway/internal/pkg/websocket"
	"github.com/jadwalin/realtime-gateway/services/gateway/handler"
	httpHandler "github.com/jadwalin/realtime-gateway/services/gateway/handler/http"
	natsHandler "github.com/jadwalin/realtime-gateway/services/gateway/handler/nats"
	wsHandler "github.com/jadwalin/realtime-gateway/services/gateway/handler/websocket"
	"github.com/jadwalin/realtime-gateway/services/gateway/hub"
	"github.com/jadwalin/realtime-gateway/services/gateway/repository"
)

// presenceRefreshInterval must stay comfortably below the presence key
// TTL so liveness markers never expire while connections are healthy.
const presenceRefreshInterval = 60 * time.Second

func main() {
	appName := "realtime-gateway"
	configs := config.InitConfig(".env")

	zapLogger, err := logger.NewZapLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	verifier := jwtpkg.NewVerifier(configs.JWT)
	if verifier.InsecureMode() {
		zapLogger.Warn("JWT secret is empty: running in insecure development mode, all connections are anonymous")
	}

	hubOpts := []hub.Option{}

	// Presence tracking is optional: the gateway stays fully functional
	// without Redis, it just stops announcing who is online.
	var redisClient *database.RedisClient
	if configs.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		hubOpts = append(hubOpts, hub.WithPresence(repository.NewPresenceRepository(redisClient)))
	}

	h := hub.New(configs.RateLimit.MessagesPerMinute, hubOpts...)

	// Broadcast ingest over NATS is optional as well; the control plane
	// endpoint keeps working either way.
	var natsClient *natspkg.Client
	var natsIngest *natsHandler.Handler
	if configs.NATS.URL != "" {
		natsClient, err = natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
		}

		natsIngest, err = natsHandler.NewHandler(h, natsClient)
		if err != nil {
			zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
		}
	}

	// Cleanup order matters: stop broadcast ingest first, then close the
	// client connections (their presence updates still need Redis), then
	// the external clients.
	shutdown := server.NewShutdownManager(zapLogger)
	if natsIngest != nil {
		shutdown.Register(func(context.Context) error {
			natsIngest.Close()
			return nil
		})
	}
	if natsClient != nil {
		shutdown.Register(func(context.Context) error {
			natsClient.Close()
			return nil
		})
	}
	shutdown.Register(func(context.Context) error {
		h.CloseAll()
		return nil
	})
	if redisClient != nil {
		shutdown.Register(func(context.Context) error {
			return redisClient.Close()
		})
	}

	manager := wspkg.NewManager(verifier)
	gatewayHandler := wsHandler.NewGatewayHandler(h, manager)
	controlHandler := httpHandler.NewControlHandler(h, appName, configs.App.Version)

	handlers := handler.NewHandler(gatewayHandler, controlHandler, configs)

	public := echo.New()
	public.HideBanner = true
	public.Use(middleware.RequestIDMiddleware())
	public.Use(logger.ZapEchoMiddleware(zapLogger))
	handlers.RegisterPublicRoutes(public)

	control := echo.New()
	control.HideBanner = true
	control.Use(logger.ZapEchoMiddleware(zapLogger))
	handlers.RegisterControlRoutes(control)

	refreshDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(presenceRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.RefreshPresence(context.Background())
			case <-refreshDone:
				return
			}
		}
	}()

	srv := server.NewGracefulServer(
		public,
		control,
		zapLogger,
		configs.Server.Host,
		configs.Server.Port,
		configs.Server.ControlPort,
		configs.Server.ShutdownTimeout,
	)

	if err := srv.Start(); err != nil {
		zapLogger.Error("Server exited with error", logger.Err(err))
	}

	close(refreshDone)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	_ = shutdown.Shutdown(ctx)
}
