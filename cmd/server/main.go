package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-stock-service/config"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	catCache "github.com/fekuna/omnipos-stock-service/internal/catalog/cache"
	catRepoPkg "github.com/fekuna/omnipos-stock-service/internal/catalog/repository"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/events"
	"github.com/fekuna/omnipos-stock-service/internal/httpapi"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount"
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	ledgerRepoPkg "github.com/fekuna/omnipos-stock-service/internal/ledger/repository"
	"github.com/fekuna/omnipos-stock-service/internal/lock"
	"github.com/fekuna/omnipos-stock-service/internal/memstore"
	"github.com/fekuna/omnipos-stock-service/internal/production"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	"github.com/fekuna/omnipos-stock-service/internal/user"
	userRepoPkg "github.com/fekuna/omnipos-stock-service/internal/user/repository"
	"github.com/fekuna/omnipos-stock-service/pkg/i18n"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"

	invH "github.com/fekuna/omnipos-stock-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-stock-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"

	countH "github.com/fekuna/omnipos-stock-service/internal/inventorycount/handler"
	countRepoPkg "github.com/fekuna/omnipos-stock-service/internal/inventorycount/repository"
	countUCPkg "github.com/fekuna/omnipos-stock-service/internal/inventorycount/usecase"

	prodH "github.com/fekuna/omnipos-stock-service/internal/production/handler"
	prodRepoPkg "github.com/fekuna/omnipos-stock-service/internal/production/repository"
	prodUCPkg "github.com/fekuna/omnipos-stock-service/internal/production/usecase"

	trH "github.com/fekuna/omnipos-stock-service/internal/transfer/handler"
	trRepoPkg "github.com/fekuna/omnipos-stock-service/internal/transfer/repository"
	trUCPkg "github.com/fekuna/omnipos-stock-service/internal/transfer/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// repositories groups the storage ports so either backend can be wired the same way.
type repositories struct {
	tx          database.TxManager
	inventories inventory.Repository
	ledger      ledger.Repository
	transfers   transfer.Repository
	counts      inventorycount.Repository
	productions production.Repository
	catalog     catalog.Reader
	users       user.Directory
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize i18n
	i18n.Init()
	if err := i18n.LoadEmbedded(); err != nil {
		log.Printf("Failed to load embedded locales: %v", err)
	}

	// 3. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 4. Initialize Storage
	var repos repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memstore.New()
		repos = repositories{
			tx:          store,
			inventories: store.Inventories(),
			ledger:      store.Ledger(),
			transfers:   store.Transfers(),
			counts:      store.Counts(),
			productions: store.Productions(),
			catalog:     store.Catalog(),
			users:       store.Users(),
		}
		appLogger.Warn("Using in-memory storage, state is lost on restart")
	default:
		db, err := database.NewPostgres(&database.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			applied, err := database.Migrate(context.Background(), db)
			if err != nil {
				appLogger.Fatal("Could not apply migrations", zap.Error(err))
			}
			appLogger.Info("Migrations applied", zap.Strings("versions", applied))
		}

		repos = repositories{
			tx:          database.NewTxManager(db),
			inventories: invRepoPkg.NewPGRepository(db),
			ledger:      ledgerRepoPkg.NewPGRepository(db),
			transfers:   trRepoPkg.NewPGRepository(db),
			counts:      countRepoPkg.NewPGRepository(db),
			productions: prodRepoPkg.NewPGRepository(db),
			catalog:     catRepoPkg.NewPGRepository(db),
			users:       userRepoPkg.NewPGRepository(db),
		}
	}

	// 5. Initialize Redis
	var locker lock.Locker = lock.Noop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			appLogger.Warn("Could not reach Redis, catalog cache and approval lock will degrade", zap.Error(err))
		} else {
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}

		repos.catalog = catCache.NewReader(repos.catalog, redisClient, time.Duration(cfg.Catalog.CacheTTL)*time.Second, appLogger)
		locker = lock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTL)*time.Second, appLogger)
	}

	// 6. Initialize Kafka Publisher
	var publisher events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.LedgerTopic, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		appLogger.Info("Publishing ledger events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.LedgerTopic))
	}

	// 7. Initialize UseCases
	invUC := invUCPkg.NewInventoryUseCase(repos.inventories, repos.ledger, repos.users, appLogger)
	validator := ledger.NewValidator(repos.ledger, repos.catalog, repos.inventories)
	mover := ledger.NewMover(repos.ledger, repos.catalog)
	trUC := trUCPkg.NewTransferUseCase(repos.transfers, invUC, validator, mover, repos.catalog, repos.users, repos.tx, publisher, appLogger)
	countUC := countUCPkg.NewCountUseCase(repos.counts, invUC, repos.ledger, repos.catalog, repos.tx, publisher, appLogger)
	prodUC := prodUCPkg.NewProductionUseCase(repos.productions, repos.users, repos.catalog, invUC, trUC, countUC, locker, repos.tx, publisher, appLogger)

	// 8. Initialize Handlers
	if err := httpapi.RegisterValidators(); err != nil {
		appLogger.Fatal("Could not register validators", zap.Error(err))
	}
	router := httpapi.NewRouter(
		httpapi.RouterConfig{AppEnv: cfg.Server.AppEnv, AllowedOrigins: cfg.Server.CORSAllowedOrigins},
		appLogger,
		invH.NewInventoryHandler(invUC, appLogger),
		trH.NewTransferHandler(trUC, appLogger),
		countH.NewCountHandler(countUC, appLogger),
		prodH.NewProductionHandler(prodUC, appLogger),
	)

	// 9. Start HTTP Server
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. Start gRPC Server (health and reflection)
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
