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

	"github.com/gin-gonic/gin"

	"github.com/naturburst/naturburst.com-sub000/config"
	"github.com/naturburst/naturburst.com-sub000/internal/api"
	"github.com/naturburst/naturburst.com-sub000/internal/broker"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
	"github.com/naturburst/naturburst.com-sub000/internal/pricing"
	"github.com/naturburst/naturburst.com-sub000/internal/redisclient"
	"github.com/naturburst/naturburst.com-sub000/internal/service"
	"github.com/naturburst/naturburst.com-sub000/internal/shopify"
	"github.com/naturburst/naturburst.com-sub000/internal/store"
	"github.com/naturburst/naturburst.com-sub000/internal/util"
	"github.com/naturburst/naturburst.com-sub000/internal/view"
	"github.com/naturburst/naturburst.com-sub000/internal/worker"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
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

	var remote service.ProductSource
	if cfg.Catalog.Source == service.SourceShopify {
		remote = shopify.NewClient(cfg.Shopify.Domain, cfg.Shopify.AccessToken, cfg.Shopify.APIVersion)
	}

	viewStore := view.NewStore()
	catalogService := service.NewCatalogService(db, remote, redisClient, eventPublisher, viewStore, cfg.Catalog.Source)
	cartService := service.NewCartService(redisClient, time.Duration(cfg.Business.CartLockSeconds)*time.Second)
	checkoutService := service.NewCheckoutService(db, redisClient, cartService, eventPublisher,
		time.Duration(cfg.Business.CheckoutSettleSeconds)*time.Second)
	contactService := service.NewContactService(service.ContactFormConfig{
		FormURL:      cfg.Contact.FormURL,
		NameFieldID:  cfg.Contact.NameFieldID,
		EmailFieldID: cfg.Contact.EmailFieldID,
		BodyFieldID:  cfg.Contact.BodyFieldID,
	}, eventPublisher)

	rates := make(map[models.Currency]float64, len(cfg.Business.DiscountRates))
	for code, rate := range cfg.Business.DiscountRates {
		rates[models.Currency(code)] = rate
	}
	priceResolver := pricing.NewResolver(rates)

	ctx := context.Background()
	if err := catalogService.Load(ctx); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Println("Catalog loaded")

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	eventsConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	analyticsWorker := worker.NewAnalyticsWorker(eventsConsumer)
	go func() {
		if err := analyticsWorker.Start(workerCtx); err != nil {
			log.Printf("Analytics worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, cartService, checkoutService, contactService, priceResolver)
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

	workerCancel()
	analyticsWorker.Stop()

	log.Println("Server exited")
}
