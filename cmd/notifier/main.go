package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hopandbarley/storefront/internal/config"
	kafkax "github.com/hopandbarley/storefront/internal/kafka"
	"github.com/hopandbarley/storefront/internal/notify"
	"github.com/hopandbarley/storefront/internal/postgres"
	"github.com/hopandbarley/storefront/internal/redisx"
	"github.com/hopandbarley/storefront/internal/users"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	worker := &notify.Worker{
		Users:      &users.Repo{DB: db},
		Redis:      rdb,
		Mailer:     &notify.Mailer{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom},
		AdminEmail: cfg.AdminEmail,
		Service:    cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	buyerCons := kafkax.NewConsumer(cfg.KafkaBrokers, group, notify.TopicBuyer, workers)
	adminCons := kafkax.NewConsumer(cfg.KafkaBrokers, group, notify.TopicAdmin, workers)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, notify.TopicBuyer, workers)
		if err := buyerCons.Start(ctx, worker.HandleBuyer); err != nil {
			log.Printf("buyer consumer exit: %v", err)
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, notify.TopicAdmin, workers)
		if err := adminCons.Start(ctx, worker.HandleAdmin); err != nil {
			log.Printf("admin consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down notifier...")
	cancel()
	wg.Wait()
}
