package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	cartapp "github.com/palindromepay/PalindromeFox/internal/application/cart"
	checkoutapp "github.com/palindromepay/PalindromeFox/internal/application/checkout"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/config"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/crypto"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/escrow"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/ipfs"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/logger"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/messaging"
	"github.com/palindromepay/PalindromeFox/internal/infrastructure/persistence"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/handler"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/middleware"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PalindromeFox",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	dbLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		dbLogLevel = gormlogger.Warn
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, dbLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	store := persistence.NewKVStore(db)

	bus := messaging.NewBus(messaging.Config{
		RequestTimeout: cfg.Messaging.RequestTimeout,
		MaxRetries:     cfg.Messaging.MaxRetries,
		RetryBackoff:   cfg.Messaging.RetryBackoff,
	}, log.Named("bus"))
	// the badge topic has no UI surface on a headless server; counts are
	// logged so operators can follow cart activity
	bus.Subscribe(messaging.TopicBadgeUpdate, func(ctx context.Context, payload any) (any, error) {
		if count, ok := payload.(int); ok {
			log.Debug("cart badge", zap.Int("count", count))
		}
		return nil, nil
	})

	carts := cartapp.NewService(store, cfg.Cart.CapUSD, log.Named("cart"),
		cartapp.WithBadgeNotifier(messaging.NewBadgeNotifier(bus, log.Named("badge"))),
	)

	merchant := cfg.ToMerchant()

	gateway, err := escrow.NewBridgeAdapter(&escrow.BridgeConfig{
		BaseURL: cfg.Escrow.BridgeURL,
		Timeout: cfg.Escrow.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to configure escrow bridge", zap.Error(err))
	}

	pinner, err := ipfs.NewPinataClient(&ipfs.PinataConfig{
		URL:     cfg.Pinata.URL,
		JWT:     cfg.Pinata.JWT,
		Timeout: cfg.Pinata.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to configure IPFS pinning", zap.Error(err))
	}

	aesKey := cfg.Crypto.AESKeyBase64
	if aesKey == "" && cfg.App.Env != "production" {
		// development fallback; sealed addresses will not survive a restart
		aesKey = crypto.GenerateKeyBase64()
		log.Warn("crypto.aes_key_base64 not set, using an ephemeral key")
	}
	encryptor, err := crypto.NewAESEncryptor(aesKey)
	if err != nil {
		log.Fatal("Failed to configure address encryption", zap.Error(err))
	}

	checkouts := checkoutapp.NewService(carts, merchant, gateway, pinner, encryptor, log.Named("checkout"))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	router.NewRouter(engine).
		Register(handler.NewCartHandler(carts)).
		Register(handler.NewIdentityHandler(carts)).
		Register(handler.NewCheckoutHandler(checkouts)).
		Register(handler.NewMerchantHandler(merchant)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	log.Info("Server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// stop badge emissions before tearing down the HTTP surface
	bus.Unsubscribe(messaging.TopicBadgeUpdate)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
