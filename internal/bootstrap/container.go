package bootstrap

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"counseling-chat-be/internal/config"
	"counseling-chat-be/internal/controller"
	"counseling-chat-be/internal/handler"
	"counseling-chat-be/internal/identity"
	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/internal/pkg/mailer"
	"counseling-chat-be/internal/pkg/serverutils"
	"counseling-chat-be/internal/repository/implementation"
	"counseling-chat-be/internal/repository/unitofwork"
	"counseling-chat-be/internal/service"
	"counseling-chat-be/internal/websocket"
	pktNats "counseling-chat-be/pkg/nats"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	CounselorController controller.ICounselorController

	// WebSockets & Notification
	ChatWsHandler       *handler.ChatWsHandler
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Background Services (Exposed for main.go to run)
	Scheduler *service.SchedulerService

	// Shared infrastructure
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis (optional, enables cross-instance notification fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub (inbox feed)
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Chat room registry and coordinator
	registry := websocket.NewRegistry(wsLogger)

	// Identity
	resolver := identity.NewResolver(
		implementation.NewUserRepository(db),
		implementation.NewCounselorRepository(db),
		cfg.JWT.Secret,
	)
	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.JWT.Secret)

	// 3. Services
	notificationService := service.NewNotificationService(uowFactory, wsHub, natsPub, emailService, sysLogger)
	chatService := service.NewChatService(uowFactory, notificationService, sysLogger)

	coordinator := websocket.NewCoordinator(registry, chatService, wsLogger)
	chatService.SetRoomNotifier(coordinator)

	counselorService := service.NewCounselorService(uowFactory, sysLogger)
	schedulerService := service.NewSchedulerService(
		uowFactory,
		chatService,
		counselorService,
		notificationService,
		cfg.Scheduler,
		sysLogger,
	)

	// Durable audit trail of the lifecycle event stream.
	eventAudit := service.NewEventAuditService(natsSub, sysLogger)
	eventAudit.Start()

	// 4. Controllers & Handlers
	return &Container{
		ChatController:      controller.NewChatController(chatService, coordinator, resolver, jwtMiddleware),
		CounselorController: controller.NewCounselorController(counselorService, resolver, jwtMiddleware),

		ChatWsHandler:       handler.NewChatWsHandler(coordinator, resolver, wsLogger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, wsHub, resolver, jwtMiddleware, wsLogger),
		WebSocketHub:        wsHub,

		Scheduler: schedulerService,

		Logger: sysLogger,
	}
}
