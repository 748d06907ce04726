package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"securechat/internal/config"
	"securechat/internal/engine"
	"securechat/internal/handlers"
	"securechat/internal/middleware"
	"securechat/internal/observability"
	"securechat/internal/rabbitmq"
	"securechat/internal/repositories"
	"securechat/internal/retention"
	"securechat/internal/storage"
	"securechat/internal/telemetry"
	"securechat/internal/ws"
)

const serviceName = "securechat"

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracer(context.Background())

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store backend=%s: %v", cfg.StorageBackend, err)
	}
	defer store.Close()

	userRepo := repositories.NewUserRepo(store)
	roomRepo := repositories.NewRoomRepo(store)
	messageRepo := repositories.NewMessageRepo(store)
	configRepo := repositories.NewConfigRepo(store)

	eng := engine.New(userRepo, roomRepo, messageRepo, configRepo, engine.Options{
		MasterPassword: cfg.MasterPassword,
		AdminUsername:  cfg.AdminUsername,
	})

	hub := ws.NewHub()
	eng.Subscribe(hub.Publish)

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	forwarder := rabbitmq.NewEventForwarder(publisher, cfg.AMQPExchange)
	eng.Subscribe(forwarder.Notify)
	audit := telemetry.NewAuditEmitter(publisher, cfg.AMQPExchange+".audit", serviceName, cfg.Environment)

	stopSweeper, err := retention.Start(ctx, eng, cfg.RetentionCron)
	if err != nil {
		log.Fatalf("failed to start retention sweeper: %v", err)
	}
	defer stopSweeper()

	issuer := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry())

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authHandler := handlers.NewAuthHandler(eng, issuer, audit)
	roomHandler := handlers.NewRoomHandler(eng, audit)
	convHandler := handlers.NewConversationHandler(eng)
	messageHandler := handlers.NewMessageHandler(eng, audit)
	adminHandler := handlers.NewAdminHandler(eng, audit)
	wsHandler := ws.NewHandler(hub, eng)

	sessionRequired := middleware.SessionMiddleware(issuer, eng)

	router.POST("/auth/classify", authHandler.Classify)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/admin-setup", authHandler.AdminSetup)
	router.POST("/auth/logout", sessionRequired, authHandler.Logout)

	router.GET("/users", sessionRequired, authHandler.ListUsers)

	router.GET("/rooms", sessionRequired, roomHandler.ListRooms)
	router.POST("/rooms", sessionRequired, roomHandler.CreateRoom)
	router.POST("/rooms/:room_id/join", sessionRequired, roomHandler.JoinRoom)

	router.GET("/conversations/active", sessionRequired, convHandler.Active)
	router.POST("/conversations/switch", sessionRequired, convHandler.Switch)
	router.POST("/conversations/dm", sessionRequired, convHandler.StartDM)

	router.GET("/messages", sessionRequired, messageHandler.List)
	router.POST("/messages", sessionRequired, messageHandler.Post)
	router.PUT("/messages/:message_id", sessionRequired, messageHandler.Edit)
	router.DELETE("/messages/:message_id", sessionRequired, messageHandler.Delete)
	router.POST("/messages/:message_id/pin", sessionRequired, messageHandler.Pin)
	router.DELETE("/messages/:message_id/pin", sessionRequired, messageHandler.Unpin)
	router.POST("/messages/:message_id/reactions", sessionRequired, messageHandler.React)

	router.GET("/admin/retention", sessionRequired, adminHandler.GetRetention)
	router.PUT("/admin/retention", sessionRequired, adminHandler.UpdateRetention)
	router.PUT("/admin/password", sessionRequired, adminHandler.UpdatePassword)
	router.POST("/admin/sweep", sessionRequired, adminHandler.Sweep)

	router.GET("/ws", sessionRequired, wsHandler.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	handlers.RegisterDebugRoutes(router, audit, cfg.Environment != "production")

	log.Printf("securechat listening port=%s backend=%s env=%s", cfg.Port, cfg.StorageBackend, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return storage.ConnectPostgres(cfg.DBDSN)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return storage.OpenPebble(cfg.DBPath)
	}
}
