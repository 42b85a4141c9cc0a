package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/cache"
	"github.com/clinica-io/clinica-api/internal/config"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/internal/events"
	v1 "github.com/clinica-io/clinica-api/internal/handler/v1"
	"github.com/clinica-io/clinica-api/internal/repository"
	"github.com/clinica-io/clinica-api/internal/service"
	"github.com/clinica-io/clinica-api/pkg/database"
	"github.com/clinica-io/clinica-api/pkg/logger"
	"github.com/clinica-io/clinica-api/pkg/metrics"
	"github.com/clinica-io/clinica-api/pkg/tracer"
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

	log.Info("api-server starting",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(context.Background(), cfg.Tracing, cfg.App)
		if err != nil {
			log.Fatal("tracer init failed", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	m := metrics.NewCollector(cfg.App.Name)

	var doctorRepo doctor.Repository = repository.NewDoctorRepository(db)
	var patientRepo patient.Repository = repository.NewPatientRepository(db)
	var appointmentRepo appointment.Repository = repository.NewAppointmentRepository(db)

	if cfg.Cache.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer client.Close()

		c := cache.New(cache.NewRedisStore(client), cfg.Cache.TTL, log, m)
		doctorRepo = repository.NewCachedDoctorRepository(doctorRepo, c)
		patientRepo = repository.NewCachedPatientRepository(patientRepo, c)
		appointmentRepo = repository.NewCachedAppointmentRepository(appointmentRepo, c)
		log.Info("read-through cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	var notifier events.Notifier = events.Nop{}
	if cfg.Kafka.Enabled {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal("kafka producer init failed", zap.Error(err))
		}
		defer publisher.Close()

		bus := events.NewBusNotifier(publisher, cfg.Kafka.TopicPrefix, cfg.Kafka.BufferSize, log, m)
		defer bus.Shutdown()
		notifier = bus
		log.Info("event notifier enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	doctorSvc := service.NewDoctorService(doctorRepo, log)
	patientSvc := service.NewPatientService(patientRepo, notifier, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, doctorSvc, patientSvc, notifier, log)

	router := v1.NewRouter(v1.RouterConfig{
		Doctors:      v1.NewDoctorHandler(doctorSvc),
		Patients:     v1.NewPatientHandler(patientSvc),
		Appointments: v1.NewAppointmentHandler(appointmentSvc),
		DB:           db,
		Log:          log,
		Metrics:      m,
		Env:          cfg.App.Environment,
		Version:      cfg.App.Version,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down api-server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("api-server stopped")
}
