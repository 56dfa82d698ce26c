package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"parkbooking/internal/booking"
	bookingservice "parkbooking/internal/booking/service"
	"parkbooking/internal/cart"
	cartrepo "parkbooking/internal/cart/repository"
	cartservice "parkbooking/internal/cart/service"
	"parkbooking/internal/checkout"
	"parkbooking/internal/commons"
	"parkbooking/internal/config"
	"parkbooking/internal/infrastructure/database"
	"parkbooking/internal/infrastructure/logger"
	"parkbooking/internal/infrastructure/rabbitmq"
	"parkbooking/internal/infrastructure/redis"
	"parkbooking/internal/park"
	"parkbooking/internal/seed"
	"parkbooking/internal/server"
)

type eventPublisher interface {
	bookingservice.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	txMgr := database.NewTxManager(db, zapLogger, cfg.Database.TxTimeout, cfg.Database.MaxRetryAttempts)
	parkLocks := commons.NewKeyedMutex()

	var publisher eventPublisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, zapLogger)
		if err != nil {
			zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
		}
		publisher = p
	}
	defer publisher.Close()

	var cartStore cartservice.CartRepository = cartrepo.NewSQLCartRepository(db)
	if cfg.Cart.Store == config.CartStoreRedis {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer client.Close()
		cartStore = cartrepo.NewRedisCartRepository(client, cfg.Redis.TTL)
	}
	zapLogger.Info("cart store selected", zap.String("store", cfg.Cart.Store))

	parkModule := park.NewModule(db, cfg.Database.Driver, txMgr, parkLocks, zapLogger)
	bookingCtrl := booking.NewModule(db, cfg.Database.Driver, txMgr, parkLocks, publisher, zapLogger)
	cartModule := cart.NewModule(db, cfg.Database.Driver, txMgr, cartStore, zapLogger)
	checkoutCtrl := checkout.NewModule(cartModule.Service, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seed.Parks(ctx, parkModule.Service, cfg.Seed.File, zapLogger); err != nil {
		zapLogger.Fatal("seeding parks", zap.Error(err))
	}

	router := server.NewRouter(parkModule.Controller, bookingCtrl, cartModule.Controller, checkoutCtrl, zapLogger)
	srv := server.New(cfg.Server, router, zapLogger)

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("server stopped with error", zap.Error(err))
		return
	}
	zapLogger.Info("server stopped gracefully")
}
