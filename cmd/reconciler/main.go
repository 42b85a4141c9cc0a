package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/config"
	"github.com/clinica-io/clinica-api/internal/repository"
	"github.com/clinica-io/clinica-api/internal/service"
	"github.com/clinica-io/clinica-api/pkg/database"
	"github.com/clinica-io/clinica-api/pkg/logger"
	"github.com/clinica-io/clinica-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config load error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("reconciler starting",
		zap.String("env", cfg.App.Environment),
		zap.Duration("interval", cfg.Worker.Interval),
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	m := metrics.NewCollector(cfg.App.Name + "_reconciler")

	// The sweep bypasses the cache decorators; it must see the store as it
	// is, not as it was.
	reconciler := service.NewReconciler(
		repository.NewDoctorRepository(db),
		repository.NewPatientRepository(db),
		repository.NewAppointmentRepository(db),
		cfg.Worker.PageSize,
		log,
		m,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce(rootCtx, reconciler, cfg.Worker.RunTimeout, log)

	ticker := time.NewTicker(cfg.Worker.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info("shutdown signal received, stopping reconciler")
			return
		case <-ticker.C:
			runOnce(rootCtx, reconciler, cfg.Worker.RunTimeout, log)
		}
	}
}

func runOnce(ctx context.Context, r *service.Reconciler, timeout time.Duration, log *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	report, err := r.Run(runCtx)
	if err != nil {
		log.Error("reconciliation run failed", zap.Error(err))
		return
	}
	log.Info("reconciliation run complete",
		zap.Duration("took", time.Since(start)),
		zap.Int("relinked", report.Relinked),
		zap.Int("pruned", report.Pruned),
	)
}
