package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/apiclient"
	"classtrack/internal/cache"
	"classtrack/internal/config"
	"classtrack/internal/notify"
	"classtrack/internal/realtime"
	"classtrack/internal/store"
)

// syncd holds the shared cache in step with the backend: it subscribes to
// the per-table change channels and invalidates the derived namespaces so
// every client reading through the cache refetches fresh rows.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var cacheStore cache.Store
	if cfg.CacheBackend == "memory" {
		cacheStore = cache.NewMemory(cfg.CacheTTL)
	} else {
		cacheStore = cache.NewRedis(redisClient.Client, cfg.CacheTTL)
	}
	defer cacheStore.Close()

	var channel realtime.Channel
	if cfg.RealtimeTransport == "ws" {
		channel = realtime.NewWSChannel(cfg.WSURL)
	} else {
		channel = realtime.NewRedisChannel(redisClient.Client)
	}

	api := apiclient.New(cfg.APIBaseURL)
	syncer := realtime.NewSyncer(channel, cacheStore, notify.Log{}, api, cfg.PingInterval)

	if err := syncer.Start(ctx); err != nil {
		log.Fatalf("syncer start failed: %v", err)
	}
	log.Printf("syncd started, watching %d tables", len(realtime.WatchedTables))

	srv := sideServer(cfg, syncer)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("side server error: %v", err)
		}
	}()

	<-ctx.Done()
	syncer.Stop()

	shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()
	_ = srv.Shutdown(shutdownCtx)
	log.Println("syncd stopped")
}

// sideServer exposes health and metrics next to the sync loop.
func sideServer(cfg config.App, syncer *realtime.Syncer) *http.Server {
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		if !syncer.Online() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"online":     syncer.Online(),
			"subscribed": syncer.Subscribed(),
		})
	})

	return &http.Server{
		Addr:         ":" + cfg.SyncHTTPPort,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}
