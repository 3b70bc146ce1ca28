package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/feriavaleria/storefront/internal/cart"
	"github.com/feriavaleria/storefront/internal/config"
	"github.com/feriavaleria/storefront/internal/events"
	"github.com/feriavaleria/storefront/internal/handlers"
	"github.com/feriavaleria/storefront/internal/mail"
	"github.com/feriavaleria/storefront/internal/middleware"
	"github.com/feriavaleria/storefront/internal/repository"
	"github.com/feriavaleria/storefront/internal/service"
	"github.com/feriavaleria/storefront/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Catalog store: Postgres when configured, in-memory otherwise
	var productRepo repository.ProductRepository
	if cfg.Database.URL != "" {
		pgRepo, err := repository.NewPostgresProductRepository(cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to catalog store", "error", err)
			os.Exit(1)
		}
		defer pgRepo.Close()
		productRepo = pgRepo
		log.Info("using postgres catalog store")
	} else {
		productRepo = repository.NewInMemoryProductRepository()
		log.Warn("DATABASE_URL not set, using in-memory catalog store")
	}

	// Order-placed event publisher (optional)
	var publisher service.EventPublisher
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewPublisher(cfg.Events.AMQPURL, cfg.Events.QueueName)
		if err != nil {
			log.Error("failed to connect to event broker", "error", err)
			os.Exit(1)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("order events enabled", "queue", cfg.Events.QueueName)
	}

	mailer := mail.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.SenderName, cfg.Mail.SenderAddress)
	cartStore := cart.NewStore()

	// Initialize services
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(
		productRepo,
		mailer,
		publisher,
		cfg.Mail.SellerAddress,
		time.Duration(cfg.Mail.SendTimeout)*time.Second,
		log,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)
	cartHandler := handlers.NewCartHandler(cartStore, log)
	orderHandler := handlers.NewOrderHandler(orderService, cartStore, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handlers.SessionHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Product endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		// Cart endpoints, one session per shopper
		r.Post("/cart/session", cartHandler.StartSession)
		r.Delete("/cart/session", cartHandler.EndSession)
		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)
		r.Delete("/cart", cartHandler.ClearCart)

		// Order submission
		r.Post("/order", orderHandler.SubmitOrder)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
