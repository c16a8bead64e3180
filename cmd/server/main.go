package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-bot/config"
	"pos-bot/internal/api"
	"pos-bot/internal/bot"
	"pos-bot/internal/broker"
	"pos-bot/internal/redisclient"
	"pos-bot/internal/service"
	"pos-bot/internal/store"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"
	"pos-bot/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting pos bot")

	if cfg.Telegram.Token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	if err := util.SetTimezone(cfg.Bot.Timezone); err != nil {
		log.Fatalf("Failed to set timezone: %v", err)
	}

	tp, err := util.InitTracer("pos-bot", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalog := service.NewCatalog(db, redisClient)
	tgClient := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.Token)

	posBot := bot.New(db, catalog, tgClient, eventPublisher, bot.Options{
		OrdersPerPage:   cfg.Bot.OrdersPerPage,
		SessionsPerPage: cfg.Bot.SessionsPerPage,
		StateIdleTTL:    time.Duration(cfg.Bot.StateIdleTTLSeconds) * time.Second,
	})

	ctx := context.Background()

	// Webhook mode when a public URL is configured, long polling otherwise
	var poller *worker.UpdatePoller
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()

	if cfg.Telegram.WebhookURL != "" {
		if err := tgClient.SetWebhook(ctx, cfg.Telegram.WebhookURL); err != nil {
			log.Fatalf("Failed to set webhook: %v", err)
		}
		log.Printf("Webhook registered: %s", cfg.Telegram.WebhookURL)
	} else {
		if err := tgClient.DeleteWebhook(ctx); err != nil {
			log.Printf("Failed to delete webhook: %v", err)
		}
		poller = worker.NewUpdatePoller(tgClient, posBot, cfg.Telegram.PollTimeout)
		go func() {
			if err := poller.Start(pollerCtx); err != nil && err != context.Canceled {
				log.Printf("Update poller error: %v", err)
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(posBot)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	pollerCancel()

	log.Println("Server exited")
}
