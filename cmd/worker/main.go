package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/database"
	"github.com/proninteam/collect_go_server/internal/pkg/email"
	"github.com/proninteam/collect_go_server/internal/pkg/queue"
	"github.com/proninteam/collect_go_server/internal/repository"
	"github.com/proninteam/collect_go_server/internal/worker"
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

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和邮件服务
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	emailService := email.NewService(&cfg.Email, cfg.Project.Name)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	collectRepo := repository.NewCollectRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 创建通知处理器
	notifier := worker.NewNotifier(notifyQueue, collectRepo, paymentRepo, userRepo, emailService, cfg)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	log.Printf("Notification worker started, max workers: %d", maxWorkers)

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notifier.Run(ctx)
		}()
	}

	wg.Wait()
	log.Println("Notification worker stopped")
}
