package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stagepass/api/routes"
	"stagepass/internal/expiry"
	"stagepass/internal/notifications"
	"stagepass/internal/seats"
	"stagepass/internal/selection"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/pkg/logger"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.GetDefault()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Error("failed to initialize databases", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	holdStore := seats.NewHoldStore(db.GetRedis())
	if err := holdStore.PreloadScripts(context.Background()); err != nil {
		log.Error("failed to preload hold scripts", "error", err.Error())
		os.Exit(1)
	}

	// Kafka is optional; without it hold lifecycle events are only logged.
	var producer notifications.Producer
	var consumer *notifications.Consumer
	if cfg.Kafka.Enabled {
		kafkaProducer, err := notifications.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer

		consumer, err = notifications.NewConsumer(cfg.Kafka)
		if err != nil {
			log.Error("failed to create kafka consumer", "error", err.Error())
			os.Exit(1)
		}
	}

	// The monitor is built before the selection service it reports into, so
	// the callback goes through this indirection. Start comes after Setup,
	// so the variable is always set before the first sweep.
	var selectionService selection.Service
	monitor := expiry.NewMonitor(expiry.Options{
		TickInterval:      cfg.Selection.TickInterval,
		WarningThreshold:  cfg.Selection.WarningThreshold,
		CriticalThreshold: cfg.Selection.CriticalThreshold,
	}, func(hold expiry.Hold) {
		if selectionService != nil {
			selectionService.HandleExpiry(hold)
		}
	})

	router, svc := routes.Setup(routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Monitor:  monitor,
		Producer: producer,
	})
	selectionService = svc

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor.Start(ctx)
	defer monitor.Stop()

	if consumer != nil {
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Error("kafka consumer stopped", "error", err.Error())
			}
		}()
		defer consumer.Stop()
	}

	engine := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", "addr", engine.Addr, "mode", cfg.GinMode)
		if err := engine.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := engine.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err.Error())
	}
}
