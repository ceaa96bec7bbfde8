package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"ministore/internal/config"
	"ministore/internal/http/handlers"
	applog "ministore/internal/log"
	"ministore/internal/security"
	"ministore/internal/storage"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			applog.SetOutput(mw)
		}
	}

	store, err := storage.New(cfg.StorageOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	log.Printf("[storage] backend=%s", storage.Resolve(cfg.StorageOptions()))

	// Auth wiring; the throttle sweeps stale entries for the process lifetime.
	throttle := security.NewThrottle(5, 10*time.Minute, 15*time.Minute)
	stop := make(chan struct{})
	defer close(stop)
	go throttle.SweepLoop(time.Minute, stop)
	authSvc := security.NewAuthService(throttle)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(store, cfg, authSvc)
	api := app.Group("/api")

	api.Get("/items", deps.ItemHandler.List)
	api.Post("/items", deps.ItemHandler.Create)
	api.Get("/items/:id", deps.ItemHandler.Get)
	api.Put("/items/:id", deps.ItemHandler.Update)
	api.Delete("/items/:id", deps.ItemHandler.Delete)

	api.Get("/categories", deps.ItemHandler.ListCategories)
	api.Post("/categories", deps.ItemHandler.CreateCategory)

	api.Get("/sales", deps.SaleHandler.List)
	api.Post("/sales", deps.SaleHandler.Create)
	api.Get("/sales/:id", deps.SaleHandler.Get)

	api.Get("/dashboard/overview", deps.DashboardHandler.Overview)
	api.Get("/dashboard/alerts", deps.DashboardHandler.Alerts)
	api.Get("/dashboard/sales-trends", deps.DashboardHandler.SalesTrends)

	api.Get("/reports/daily-summary", deps.ReportHandler.DailySummary)
	api.Get("/reports/top-products", deps.ReportHandler.TopProducts)
	api.Get("/reports/sales-trends", deps.ReportHandler.SalesTrends)
	api.Get("/reports/inventory", deps.ReportHandler.Inventory)
	api.Get("/reports/sales", deps.ReportHandler.Sales)

	// Login gets its own tighter limiter on top of the throttle.
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "too many attempts, try again later",
			})
		},
	}), deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	api.Get("/auth/session", deps.AuthHandler.Session)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			applog.Error(c, "health.fail", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "not found",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
