package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/farm-dashboard/internal/api/http"
	"github.com/i474232898/farm-dashboard/internal/scheduler"
)

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Scheduler that keeps the caches warm.
	sched := scheduler.New(cfg.WarmLocations, cfg.WarmCrops, cfg.WarmInterval, svc.weather, svc.market, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "farm-dashboard",
		DisableStartupMessage: true,
		Immutable:             true,
		// Photo data URIs are base64, a third larger than the image.
		BodyLimit: 12 * 1024 * 1024,
		ReadTimeout:           10 * time.Second,
		// Advisor completions can take a while.
		WriteTimeout: 60 * time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	deps := httpapi.Deps{
		Weather: svc.weather,
		Prices:  svc.market,
		Advisor: svc.advisor,
		Contact: svc.contact,
	}
	if svc.metrics != nil {
		deps.Metrics = svc.metrics.Handler()
	}
	httpapi.RegisterRoutes(app, deps)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("error during shutdown", zap.Error(err))
	}
	return nil
}
