package main

import (
	"context"
	"log"

	"go-cinema-ticketing/config"
	"go-cinema-ticketing/internal/cache"
	"go-cinema-ticketing/internal/database"
	"go-cinema-ticketing/internal/handler"
	"go-cinema-ticketing/internal/mailer"
	"go-cinema-ticketing/internal/middleware"
	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/payment"
	"go-cinema-ticketing/internal/queue"
	"go-cinema-ticketing/internal/repository"
	"go-cinema-ticketing/internal/service"
	"go-cinema-ticketing/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	if err := database.InitSchema(context.Background(), pool); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	screeningRepo := repository.NewScreeningRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// Infrastructure
	availability := cache.NewRedisAvailabilityCache(rdb)
	gateway := payment.NewCheckoutClient(cfg.Checkout)
	htmlMailer := mailer.NewHTTPMailer(cfg.Mail)

	notifications, err := queue.NewRedisStreamNotificationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize notification queue: %v", err)
	}

	// Services
	ledger := service.NewSeatLedger(screeningRepo, availability)
	reservations := service.NewReservationService(ledger)
	authService := service.NewAuthService(userRepo, cfg.Auth)
	productService := service.NewProductService(productRepo)
	screeningService := service.NewScreeningService(screeningRepo, ledger)
	orderService := service.NewOrderService(pool, orderRepo, screeningRepo, reservations, gateway, notifications, availability)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationWorker := worker.NewNotificationWorker(htmlMailer, notifications)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	router := gin.Default()

	auth := middleware.JWTAuth(cfg.Auth.JWTSecret)
	admin := middleware.RequireRole(model.RoleAdmin)

	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewProductHandler(productService).RegisterRoutes(router, auth, admin)
	handler.NewScreeningHandler(screeningService).RegisterRoutes(router, auth, admin)
	handler.NewOrderHandler(orderService).RegisterRoutes(router, auth, admin)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
