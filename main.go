package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"transportku_backend/internals/bootstrap"
	"transportku_backend/internals/configs"
	database "transportku_backend/internals/databases"
	helper "transportku_backend/internals/helpers"
	middlewares "transportku_backend/internals/middlewares"
	routes "transportku_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	log := configs.NewLogger()
	defer func() { _ = log.Sync() }()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timeout guard (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("request_id", id)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	database.TunePool(db, log)
	if configs.GetBool("DB_AUTO_MIGRATE", true) {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal("auto migrate failed", zap.Error(err))
		}
	}
	database.WarmUpQueries(db, log)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	container, err := bootstrap.New(rootCtx, db, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	middlewares.SetupMiddlewares(app, log, container.Billing)
	routes.SetupRoutes(app, container)

	// ⏱ scheduler rekonsiliasi setelah DB siap
	if container.Billing.SchedulerEnabled {
		go container.Scheduler.Start(rootCtx)
	}

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Info("listening", zap.String("port", port))
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown: stop scheduler, HTTP, lalu tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
