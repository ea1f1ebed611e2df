package main

import (
	"fmt"
	"log"
	"time"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/api"
	"github.com/proninteam/collect_go_server/internal/api/handler"
	"github.com/proninteam/collect_go_server/internal/database"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/pkg/cache"
	"github.com/proninteam/collect_go_server/internal/pkg/queue"
	"github.com/proninteam/collect_go_server/internal/repository"
	"github.com/proninteam/collect_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Collect{},
		&model.Payment{},
		&model.Like{},
		&model.Comment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化缓存与通知队列
	ttl := time.Duration(cfg.Cache.CollectDetailTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cacheStore := cache.NewStore(rdb, ttl)
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)

	// 初始化事件分发器
	dispatcher := events.NewDispatcher()
	dispatcher.Register("cache_invalidator", events.NewCacheInvalidator(cacheStore))
	dispatcher.Register("notification_enqueuer", events.NewNotificationEnqueuer(notifyQueue))

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	collectRepo := repository.NewCollectRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 初始化 Service
	collectService := service.NewCollectService(collectRepo, paymentRepo, userRepo, cacheStore, dispatcher, cfg)
	paymentService := service.NewPaymentService(db, collectRepo, paymentRepo, userRepo, dispatcher, cfg)
	likeService := service.NewLikeService(likeRepo, paymentRepo, dispatcher, cfg)
	commentService := service.NewCommentService(commentRepo, paymentRepo, userRepo, dispatcher, cfg)

	// 初始化 Handler
	collectHandler := handler.NewCollectHandler(collectService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	likeHandler := handler.NewLikeHandler(likeService)
	commentHandler := handler.NewCommentHandler(commentService)

	// 初始化 Router
	router := api.NewRouter(
		collectHandler,
		paymentHandler,
		likeHandler,
		commentHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
