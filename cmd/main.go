// 234hire-application-service
//
// Status-transition engine for job applications on the 234Hire
// marketplace. Exposes a REST API used by the Gateway to implement:
//   - apply(jobId)                        — create a pending application
//   - transition(applicationId, status)   — state machine transitions
//   - recordView(applicationId)           — view analytics
//   - myApplications / jobApplications    — list queries
//
// On accepted transitions: books the job payment ledger entry, marks
// the job completed, bumps employer/job hiring counters and recomputes
// success/response rates. Publishes EVENT_APPLICATION_STATUS to Redis
// for Gateway SSE forward. Failed side effects are queued and
// redelivered by a cron worker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onyillto/234Hire-Backend/internal/application"
	"github.com/onyillto/234Hire-Backend/internal/config"
	"github.com/onyillto/234Hire-Backend/internal/db"
	"github.com/onyillto/234Hire-Backend/internal/httpapi"
	"github.com/onyillto/234Hire-Backend/internal/notify"
	"github.com/onyillto/234Hire-Backend/internal/retry"
	"github.com/onyillto/234Hire-Backend/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[application-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[application-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[application-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[application-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[application-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[application-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[application-service] Redis connected ✓")

	// ── Engine wiring ────────────────────────────────────────────────────────
	apps := store.NewApplicationStore(pool)
	jobs := store.NewJobStore(pool)
	users := store.NewUserStore(pool)
	txs := store.NewTransactionStore(pool)
	notifications := store.NewNotificationStore(pool)
	failures := store.NewFailureStore(pool)

	dispatcher := notify.NewDispatcher(notifications, rdb)
	ledger := application.NewLedger(txs, users, cfg.PlatformFeePct)
	stats := application.NewStatsAggregator(jobs, users)
	engine := application.NewEngine(apps, jobs, users, txs, ledger, stats, dispatcher, failures, nil)

	// ── Redelivery worker ────────────────────────────────────────────────────
	worker := retry.New(failures, engine, cfg.RetryIntervalMinutes, nil)
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("[application-service] Redelivery worker: %v", err)
	}
	defer worker.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := httpapi.NewHandler(engine, apps, jobs)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[application-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[application-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[application-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[application-service] Shutdown error: %v", err)
	}
	log.Println("[application-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "application-service",
		"version": version,
	})
}
