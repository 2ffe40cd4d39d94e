package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-pos/internal/handler"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/config"
	"go-inventory-pos/pkg/database"
	"go-inventory-pos/pkg/jwt"
	"go-inventory-pos/pkg/metrics"
	"go-inventory-pos/pkg/rabbitmq"
	"go-inventory-pos/pkg/response"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	// 2. Setup Database
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)

	// 3. Seed default admin user
	if err := service.SeedAdmin(context.Background(), userRepo, cfg.AdminEmail, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Printf("Warning: %v", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Optional broker; the API keeps working without it
	var events service.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: events disabled: %v", err)
		} else {
			defer mq.Close()
			events = mq
		}
	}

	// 6. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	// 7. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	incidentRepo := repository.NewIncidentRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, tokens)
	invService := service.NewInventoryService(productRepo, activityRepo, db, wsHub, events)
	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		Reconciler:      service.NewStockReconciler(db, productRepo),
		Recorder:        service.NewTransactionRecorder(txRepo),
		TransactionRepo: txRepo,
		IdempotencyRepo: repository.NewIdempotencyRepo(db),
		IncidentRepo:    incidentRepo,
		ActivityRepo:    activityRepo,
		Notifier:        wsHub,
		Events:          events,
		Metrics:         checkoutMetrics,
		Currency:        cfg.Currency,
	})
	historyService := service.NewHistoryService(txRepo, cfg.HistoryLimit)
	dashService := service.NewDashboardService(productRepo, txRepo, cfg.LowStockThreshold)
	activityService := service.NewActivityService(activityRepo)
	incidentService := service.NewIncidentService(incidentRepo)

	sweeper, err := service.StartIncidentSweeper(cfg.IncidentSweepSpec, incidentService)
	if err != nil {
		log.Fatalf("Failed to schedule incident sweep: %v", err)
	}

	// 8. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory POS v1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"error":   fiber.Map{"code": "HTTPError", "message": e.Message},
				})
			}
			return response.Fail(c, err)
		},
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
		}
		return c.JSON(fiber.Map{"status": "ok", "wsClients": wsHub.ClientCount()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))

	handler.Routes{
		AuthService: authService,
		Auth:        handler.NewAuthHandler(authService),
		Inventory:   handler.NewInventoryHandler(invService),
		Checkout:    handler.NewCheckoutHandler(checkoutService, historyService),
		Dashboard:   handler.NewDashboardHandler(dashService),
		Admin:       handler.NewAdminHandler(activityService, incidentService),
	}.Register(app)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Serve))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	<-sweeper.Stop().Done()
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
