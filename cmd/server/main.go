package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AiswaryaS-IT/banking-website/internal/config"
	"github.com/AiswaryaS-IT/banking-website/internal/db"
	"github.com/AiswaryaS-IT/banking-website/internal/domain"
	"github.com/AiswaryaS-IT/banking-website/internal/events"
	"github.com/AiswaryaS-IT/banking-website/internal/httpapi"
)

func main() {
	// A missing .env file is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()
	log.Println("database connection pool initialized")

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	accountRepo := db.NewAccountRepository(pool.Pool)
	transactionRepo := db.NewTransactionRepository(pool.Pool)
	txManager := db.NewTransactionManager(pool.Pool)

	var publisher domain.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbitPublisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
		if err != nil {
			log.Fatalf("failed to create event publisher: %v", err)
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		log.Println("event publisher initialized")
	}

	directory := domain.NewDirectoryService(accountRepo, domain.NewAccountNumberGenerator())
	ledger := domain.NewLedgerService(accountRepo, transactionRepo, txManager, publisher)
	queries := domain.NewQueryService(accountRepo, transactionRepo)
	log.Println("domain services initialized")

	handler := httpapi.NewHandler(directory, ledger, queries)
	router := httpapi.NewRouter(handler, cfg.RequestTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		log.Printf("HTTP server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Println("HTTP server stopped")
}
