package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rakibhasan/elegant-server/internal/config"
	api "github.com/rakibhasan/elegant-server/internal/http"
	"github.com/rakibhasan/elegant-server/internal/log"
	"github.com/rakibhasan/elegant-server/internal/metrics"
	"github.com/rakibhasan/elegant-server/internal/queue"
	"github.com/rakibhasan/elegant-server/internal/repo"
)

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Env == "production")
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer logger.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Errorf("mongo connect: %v", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Errorf("ensure indexes: %v", err)
		os.Exit(1)
	}

	var pub queue.Publisher
	if cfg.AmqpURL != "" {
		pub, err = queue.NewRabbit(cfg.AmqpURL, queue.Exchange)
		if err != nil {
			log.Errorf("rabbit connect: %v", err)
			os.Exit(1)
		}
		defer pub.Close()
	}

	h := api.NewHandler(store, cfg.JWTSecret, cfg.AccessTTLHours, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	log.Infof("elegant-server listening on :%s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Infof("signal: %s, shutting down", s)
	case err := <-srvErr:
		log.Errorf("server error: %v", err)
		os.Exit(1)
	}
}
