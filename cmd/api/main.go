package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"taqsit/internal/client"
	"taqsit/internal/config"
	"taqsit/internal/repository"
	"taqsit/internal/server"
	"taqsit/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	lsClient := client.NewLemonSqueezyClient(&cfg.LemonSqueezy)

	customerRepo := repository.NewCustomerRepository(db)
	planRepo := repository.NewPlanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	capitalService := service.NewCapitalService(db, ledgerRepo, installmentRepo, planRepo)
	planService := service.NewPlanService(db, planRepo, installmentRepo, ledgerRepo, customerRepo, capitalService)
	billingService := service.NewBillingService(db, &cfg.LemonSqueezy, lsClient, subscriptionRepo, webhookEventRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(planService, capitalService, billingService)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
