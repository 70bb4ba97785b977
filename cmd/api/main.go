package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hopandbarley/storefront/internal/cart"
	"github.com/hopandbarley/storefront/internal/catalog"
	"github.com/hopandbarley/storefront/internal/config"
	"github.com/hopandbarley/storefront/internal/httpx"
	kafkax "github.com/hopandbarley/storefront/internal/kafka"
	"github.com/hopandbarley/storefront/internal/notify"
	"github.com/hopandbarley/storefront/internal/orders"
	"github.com/hopandbarley/storefront/internal/postgres"
	"github.com/hopandbarley/storefront/internal/redisx"
	"github.com/hopandbarley/storefront/internal/reviews"
	"github.com/hopandbarley/storefront/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers for the notification hook
	pBuyer := kafkax.NewProducer(cfg.KafkaBrokers, notify.TopicBuyer, 1024)
	pBuyer.Start(ctx)
	pAdmin := kafkax.NewProducer(cfg.KafkaBrokers, notify.TopicAdmin, 1024)
	pAdmin.Start(ctx)

	// Repos
	catalogRepo := &catalog.Repo{DB: db}
	ordersRepo := &orders.Repo{DB: db}
	reviewsRepo := &reviews.Repo{DB: db}
	usersRepo := &users.Repo{DB: db}

	// Cart engine over the redis-backed store
	engine := &cart.Engine{
		Store:   &cart.RedisStore{RDB: rdb},
		Catalog: catalogRepo,
	}

	sessions := &users.Sessions{RDB: rdb, TTL: cfg.SessionTTL}

	checkout := &orders.Service{
		Cart:   engine,
		Placer: ordersRepo,
		Notifier: &notify.KafkaNotifier{
			Buyer:   pBuyer,
			Admin:   pAdmin,
			Service: cfg.ServiceName,
		},
	}
	reviewsSvc := &reviews.Service{Store: reviewsRepo}
	usersSvc := &users.Service{Accounts: usersRepo}

	// Router & handlers
	sm := &httpx.SessionMiddleware{Sessions: sessions, TTL: cfg.SessionTTL}
	router := httpx.NewRouter(sm.Handler)

	(&httpx.ProductsHandler{Catalog: catalogRepo, Reviews: reviewsSvc}).Register(router)
	(&httpx.CartHandler{Engine: engine, Catalog: catalogRepo}).Register(router)
	(&httpx.OrdersHandler{Service: checkout, Repo: ordersRepo}).Register(router)
	(&httpx.ReviewsHandler{Catalog: catalogRepo, Service: reviewsSvc}).Register(router)
	(&httpx.UsersHandler{Service: usersSvc, Accounts: usersRepo, Sessions: sessions, Orders: ordersRepo}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pBuyer.Close()
	pAdmin.Close()
	cancel()
	pBuyer.WaitClosed()
	pAdmin.WaitClosed()
}
