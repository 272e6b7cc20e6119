package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/makerstash/diy-backend/config"
	"github.com/makerstash/diy-backend/internal/bootstrap"
	"github.com/makerstash/diy-backend/internal/projects/repository"
	"github.com/makerstash/diy-backend/internal/storage/postgres"
	"github.com/makerstash/diy-backend/internal/uploads/storage"
	"github.com/makerstash/diy-backend/internal/uploads/sweeper"
)

const serviceName = "diy-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	repo := repository.NewProjectRepository(pool)

	var store repository.Store = repo
	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Printf("redis unavailable, cache disabled: %v", err)
		} else {
			defer rdb.Close()
			store = repository.NewCachedStore(repo, rdb, cfg.Redis.CacheTTL)
			log.Printf("project cache enabled (ttl=%s)", cfg.Redis.CacheTTL)
		}
	}

	var (
		images    storage.ImageStore
		uploadDir string
	)
	switch cfg.Storage.Driver {
	case "s3":
		images, err = storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("s3 storage: %v", err)
		}
	default:
		local, err := storage.NewLocalStore(cfg.Storage.LocalDir, "/uploads")
		if err != nil {
			log.Fatalf("local storage: %v", err)
		}
		images = local
		uploadDir = local.Dir()

		sw := sweeper.New(local.Dir(), repo, cfg.Storage.SweepRetention)
		if err := sw.Start(cfg.Storage.SweepSchedule); err != nil {
			log.Fatalf("sweeper: %v", err)
		}
		defer sw.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		DB:             pool,
		Store:          store,
		Images:         images,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		UploadDir:      uploadDir,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("server running on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
