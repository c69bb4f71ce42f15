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

	"shop-service/config"
	"shop-service/internal/api"
	"shop-service/internal/broker"
	"shop-service/internal/redisclient"
	"shop-service/internal/service"
	"shop-service/internal/storage"
	"shop-service/internal/storage/jsonstore"
	"shop-service/internal/storage/mongostore"
	"shop-service/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting shop service")

	tp, err := util.InitTracer("shop-service", cfg.Observ.JaegerEndpoint)
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

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage backend: %v", cfg.Storage.Backend, err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Error closing storage backend: %v", err)
		}
	}()
	log.Printf("Storage backend ready: %s", cfg.Storage.Backend)

	var locker service.ProductLocker
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		locker = redisClient
		log.Println("Redis connected, product locking enabled")
	} else {
		log.Println("Redis not configured, product locking disabled")
	}

	var eventPublisher *broker.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		eventPublisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	} else {
		log.Println("Kafka not configured, event publishing disabled")
	}

	catalogService := service.NewCatalogService(store, eventPublisher)
	inventoryService := service.NewInventoryService(store, eventPublisher)
	orderService := service.NewOrderService(store, inventoryService, eventPublisher, locker)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, orderService)
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

	log.Println("Server exited")
}

// newStore builds the configured storage backend. Both backends implement the
// same port, so everything above this call is backend-agnostic.
func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "mongo":
		return mongostore.NewStore(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database)
	case "json":
		return jsonstore.NewStore(cfg.JSON.ProductsFile, cfg.JSON.OrdersFile)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
