package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/database"
	"github.com/proninteam/collect_go_server/internal/repository"
)

var (
	once     = flag.Bool("once", false, "Run a single reconcile pass and exit")
	interval = flag.Int("interval", 0, "Minutes between passes, overrides config when > 0")
)

// 对账扫描：把已过截止时间或已达上限的活动置为停止。
// 付款准入本身会惰性停用这类活动，本任务只兜底处理
// 长时间没有付款尝试的活动。幂等，可与服务进程并发运行。
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	collectRepo := repository.NewCollectRepository(db)

	if *once {
		runPass(collectRepo)
		return
	}

	minutes := cfg.Sweep.IntervalMinutes
	if *interval > 0 {
		minutes = *interval
	}
	if minutes <= 0 {
		minutes = 10
	}

	log.Printf("Sweep started, interval: %dm", minutes)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(minutes) * time.Minute)
	defer ticker.Stop()

	runPass(collectRepo)
	for {
		select {
		case <-sigChan:
			log.Println("Sweep stopped")
			return
		case <-ticker.C:
			runPass(collectRepo)
		}
	}
}

func runPass(collectRepo *repository.CollectRepository) {
	now := time.Now()

	expired, err := collectRepo.DeactivateExpired(now)
	if err != nil {
		log.Printf("Sweep: failed to deactivate expired collects: %v", err)
	}

	capped, err := collectRepo.DeactivateCapReached()
	if err != nil {
		log.Printf("Sweep: failed to deactivate cap-reached collects: %v", err)
	}

	if expired+capped > 0 {
		log.Printf("Sweep: deactivated %d expired, %d cap-reached collects", expired, capped)
	}
}
