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

	"salonka/internal/config"
	"salonka/internal/http/handlers"
	applog "salonka/internal/log"
	"salonka/internal/repos"
	"salonka/internal/services"
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
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Auth (login throttled) ----------
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// ---------- API ----------
	deps := handlers.NewDeps(db)
	api := app.Group("/api/v1", handlers.RequireUser(authSvc))

	// Products & stock
	api.Get("/products", deps.ProductHandler.List)
	api.Post("/products", deps.ProductHandler.Create)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Put("/products/:id", deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequireOwner(authSvc), deps.ProductHandler.Delete)
	api.Get("/products/:id/movements", deps.ProductHandler.History)
	api.Post("/products/:id/movements", handlers.RequireOwner(authSvc), deps.ProductHandler.Movement)
	api.Post("/stock/in", deps.ProductHandler.StockIn)
	api.Post("/stock/out", deps.ProductHandler.StockOut)
	api.Get("/order-suggestions", deps.ProductHandler.Reorder)

	// Visit composition (virtual stock checks against uncommitted blocks)
	api.Post("/compose/virtual-stock", deps.VisitHandler.VirtualStock)
	api.Post("/compose/items", deps.VisitHandler.AddItem)
	api.Put("/compose/items", deps.VisitHandler.UpdateItem)

	// Visits
	api.Post("/visits", deps.VisitHandler.Save)
	api.Delete("/visits/:id", deps.VisitHandler.Delete)
	api.Get("/visits/:id/duplicate", deps.VisitHandler.Duplicate)
	api.Post("/visits/:id/payment", deps.RevenueHandler.PayVisit)

	// Clients
	api.Get("/clients", deps.ClientHandler.List)
	api.Post("/clients", deps.ClientHandler.Create)
	api.Get("/clients/:id", deps.ClientHandler.Get)
	api.Put("/clients/:id", deps.ClientHandler.Update)
	api.Delete("/clients/:id", handlers.RequireOwner(authSvc), deps.ClientHandler.Delete)
	api.Get("/clients/:id/visits", deps.VisitHandler.ByClient)

	// Revenue
	api.Get("/revenue", deps.RevenueHandler.List)
	api.Get("/revenue/summary", deps.RevenueHandler.Summary)
	api.Delete("/revenue/:id", handlers.RequireOwner(authSvc), deps.RevenueHandler.Delete)
	api.Post("/sales", deps.RevenueHandler.CounterSale)

	// Templates
	api.Get("/templates", deps.TemplateHandler.List)
	api.Post("/templates", deps.TemplateHandler.Create)
	api.Get("/templates/:id/apply", deps.TemplateHandler.Apply)
	api.Delete("/templates/:id", deps.TemplateHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
