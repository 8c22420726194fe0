package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/netutil"

	"skinglow-go/internal/ai"
	"skinglow-go/internal/auth"
	"skinglow-go/internal/cache"
	"skinglow-go/internal/compression"
	"skinglow-go/internal/config"
	"skinglow-go/internal/constants"
	"skinglow-go/internal/handler"
	"skinglow-go/internal/metrics"
	"skinglow-go/internal/middleware"
	"skinglow-go/internal/monitor"
	"skinglow-go/internal/router"
	"skinglow-go/internal/security"
	"skinglow-go/internal/service"
	"skinglow-go/internal/storage"
	"skinglow-go/pkg/archive"
)

const maxConcurrentConns = 1000

func main() {
	cfg, err := config.Init()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	constants.UpdateFromConfig(cfg)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("Error opening database:", err)
	}
	defer store.Close()

	collector := metrics.InitCollector()

	analysisCache := cache.New(constants.CacheMaxSize, constants.CacheTTL)
	aiClient := ai.NewClient(cfg)
	authService := auth.NewService()

	// 图片归档可选，未配置S3时跳过
	var archiver *archive.Archiver
	var imageArchiver service.ImageArchiver
	if cfg.Archive.Enabled {
		archiver, err = archive.NewArchiver(&cfg.Archive)
		if err != nil {
			log.Printf("[Main] 归档器初始化失败，继续运行: %v", err)
		} else {
			imageArchiver = archiver
		}
	}

	analysisService := service.NewAnalysisService(store, analysisCache, aiClient, imageArchiver)
	foodService := service.NewFoodService(store, aiClient, imageArchiver)
	chatService := service.NewChatService(store, aiClient)

	limiter := security.NewRateLimiter(&security.RateLimitConfig{
		MaxRequests:   constants.RateLimitRequests,
		WindowSeconds: int(constants.RateLimitWindow.Seconds()),
	})

	mux := router.New(authService, limiter, &router.Handlers{
		Health:        handler.NewHealthHandler(cfg, analysisService),
		Analyze:       handler.NewAnalyzeHandler(analysisService),
		Auth:          handler.NewAuthHandler(authService, store),
		Users:         handler.NewUserHandler(store),
		Scans:         handler.NewScanHandler(store),
		Subscription:  handler.NewSubscriptionHandler(store),
		Food:          handler.NewFoodHandler(foodService, store),
		Reports:       handler.NewReportHandler(store),
		Chat:          handler.NewChatHandler(chatService),
		Announcements: handler.NewAnnouncementHandler(),
	})

	compManager := compression.NewManager(compression.DefaultConfig)

	var h http.Handler = mux
	h = middleware.Compression(compManager)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.Tracking(h)

	aiMonitor := monitor.NewMonitor(collector)
	if cfg.AlertWebhookURL != "" {
		aiMonitor.AddHandler(monitor.NewWebhookHandler(cfg.AlertWebhookURL))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: h,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server...")

		// 先关服务器再停各管理器，避免在途请求写入已关闭的队列
		if err := server.Close(); err != nil {
			log.Printf("Error during server shutdown: %v\n", err)
		}

		aiMonitor.Stop()
		limiter.Stop()
		authService.Stop()
		if archiver != nil {
			archiver.Stop()
		}
	}()

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatal("Error creating listener:", err)
	}
	listener = netutil.LimitListener(listener, maxConcurrentConns)

	log.Printf("Starting %s v%s on :%d", config.AppName, config.Version, cfg.Port)
	if err := server.Serve(listener); err != http.ErrServerClosed {
		log.Fatal("Error starting server:", err)
	}
}
