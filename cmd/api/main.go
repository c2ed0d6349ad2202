package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/api"
	"github.com/example/vendor-market/internal/auth"
	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/config"
	"github.com/example/vendor-market/internal/infrastructure/kafka"
	"github.com/example/vendor-market/internal/infrastructure/redisx"
	"github.com/example/vendor-market/internal/infrastructure/store"
	"github.com/example/vendor-market/internal/orders"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("[API] No .env file found, using environment")
	}
	cfg := config.Load()

	log.Println("[API] ========================================")
	log.Printf("[API] %s - Vendor Marketplace", cfg.ServiceName)
	log.Println("[API] ========================================")
	log.Printf("[API] Store backend: %s", cfg.StoreBackend)

	accountStore, catalogStore, orderStore, closeStores := buildStores(ctx, cfg)
	defer closeStores()

	// Kafka producer is optional, orders commit without it.
	var producer orders.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		producer = p
		log.Printf("[API] Kafka: %v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Println("[API] Kafka disabled (no brokers configured)")
	}

	// Redis product cache is optional too.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		c, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Printf("[API] Redis unavailable, serving without cache: %v", err)
		} else {
			cache = c
			defer c.Close()
			log.Printf("[API] Redis cache: %s", cfg.RedisAddr)
		}
	}

	accountSvc := account.NewService(accountStore)
	catalogSvc := catalog.NewService(catalogStore)
	orderSvc := orders.NewService(catalogStore, orderStore, accountStore, producer)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)

	router := api.NewRouter(api.RouterConfig{
		Handlers:       api.NewHandlers(catalogSvc, orderSvc, cache),
		AuthHandlers:   api.NewAuthHandlers(accountSvc, jwtService),
		VendorHandlers: api.NewVendorHandlers(accountSvc, catalogSvc),
		AdminHandlers:  api.NewAdminHandlers(accountSvc, catalogSvc, orderSvc),
		JWTService:     jwtService,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}

// buildStores wires the persistence backend. STORE_BACKEND picks memory or
// postgres for all three stores; ORDER_STORE=dynamo swaps just the order
// store for DynamoDB.
func buildStores(ctx context.Context, cfg config.Config) (account.Store, catalog.Store, orders.Store, func()) {
	var (
		accountStore account.Store
		catalogStore catalog.Store
		orderStore   orders.Store
		closeFn      = func() {}
	)

	switch cfg.StoreBackend {
	case "postgres":
		db, err := store.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		if err := store.InitSchema(db); err != nil {
			log.Fatalf("[API] Failed to initialize schema: %v", err)
		}
		log.Println("[API] Connected to PostgreSQL")
		accountStore = store.NewPostgresAccountStore(db)
		catalogStore = store.NewPostgresCatalogStore(db)
		orderStore = store.NewPostgresOrderStore(db)
		closeFn = func() { db.Close() }
	case "memory":
		accountStore = store.NewMemoryAccountStore()
		catalogStore = store.NewMemoryCatalogStore()
		orderStore = store.NewMemoryOrderStore()
	default:
		log.Fatalf("[API] Unknown STORE_BACKEND: %s", cfg.StoreBackend)
	}

	if cfg.OrderStore == "dynamo" {
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			log.Fatalf("[API] Failed to create DynamoDB client: %v", err)
		}
		orderStore = store.NewDynamoOrderStore(client, cfg.DynamoTable)
		log.Printf("[API] Orders: DynamoDB table %s", cfg.DynamoTable)
	}

	return accountStore, catalogStore, orderStore, closeFn
}
