// Command server runs the live voting backend: REST API, websocket push
// channel and operational endpoints in one process.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YoungStar1994/VibeVote-Live/internal/admin"
	adminhandler "github.com/YoungStar1994/VibeVote-Live/internal/admin/handler"
	"github.com/YoungStar1994/VibeVote-Live/internal/broadcast"
	"github.com/YoungStar1994/VibeVote-Live/internal/identity"
	"github.com/YoungStar1994/VibeVote-Live/internal/ledger"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/config"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/database"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/httpserver"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/logger"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/metrics"
	platformredis "github.com/YoungStar1994/VibeVote-Live/internal/platform/redis"
	programhandler "github.com/YoungStar1994/VibeVote-Live/internal/program/handler"
	programservice "github.com/YoungStar1994/VibeVote-Live/internal/program/service"
	"github.com/YoungStar1994/VibeVote-Live/internal/settings"
	settingshandler "github.com/YoungStar1994/VibeVote-Live/internal/settings/handler"
	httptransport "github.com/YoungStar1994/VibeVote-Live/internal/transport/http"
	votehandler "github.com/YoungStar1994/VibeVote-Live/internal/vote/handler"
	voteservice "github.com/YoungStar1994/VibeVote-Live/internal/vote/service"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Ledger: Postgres when configured, in-memory otherwise. The in-memory
	// ledger is seeded with the default roster so a bare `go run` serves a
	// working event out of the box.
	var store ledger.Store
	var healthChecks []func() error
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := ledger.CreateSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		pg := ledger.NewPostgres(db)
		if err := ledger.SeedDefaults(ctx, pg); err != nil {
			log.Error("roster seed failed", "error", err)
			os.Exit(1)
		}
		store = pg
		healthChecks = append(healthChecks, db.Ping)
		log.Info("using postgres ledger")
	} else {
		mem := ledger.NewInMemory()
		if err := ledger.SeedDefaults(ctx, mem); err != nil {
			log.Error("roster seed failed", "error", err)
			os.Exit(1)
		}
		store = mem
		log.Info("using in-memory ledger")
	}

	// Settings: Redis when configured, process memory otherwise.
	var settingsStore settings.Store = settings.NewMemoryStore()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		settingsStore = settings.NewRedisStore(redisClient.Client)
		healthChecks = append(healthChecks, func() error {
			return redisClient.Health(context.Background())
		})
		log.Info("using redis settings store")
	}

	hub := broadcast.NewHub(log, m)

	adminSvc := admin.NewService(
		cfg.AdminUsername,
		cfg.AdminPasswordHash,
		admin.NewTokenService(cfg.JWTSigningKey, cfg.AdminTokenTTL),
		log,
	)
	voteSvc := voteservice.New(store, identity.NewResolver(), hub, m, log)
	programSvc := programservice.New(store, hub, log)
	settingsSvc := settings.NewService(settingsStore, hub, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Votes:     votehandler.New(voteSvc, log),
		Programs:  programhandler.New(programSvc, log),
		Settings:  settingshandler.New(settingsSvc, log),
		Admin:     adminhandler.New(adminSvc, log),
		Push:      httptransport.PushHandler(hub, voteSvc.Tally, log),
		Validator: adminSvc,
		Logger:    log,
		Health: func() error {
			for _, check := range healthChecks {
				if err := check(); err != nil {
					return err
				}
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
