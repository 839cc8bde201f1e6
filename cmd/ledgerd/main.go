package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/facility-ledger/internal/api"
	"github.com/joseph-ayodele/facility-ledger/internal/async"
	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/entries"
	"github.com/joseph-ayodele/facility-ledger/internal/events"
	"github.com/joseph-ayodele/facility-ledger/internal/export"
	"github.com/joseph-ayodele/facility-ledger/internal/server"
	"github.com/joseph-ayodele/facility-ledger/internal/storage"
)

func main() {
	cfg := common.LoadConfig()
	logger := server.NewLogger(cfg.Log, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open ledger store", "error", err)
		os.Exit(1)
	}
	defer store.Close(logger)

	docs, err := storage.NewLocalStore(cfg.Server.UploadsDir, logger)
	if err != nil {
		logger.Error("failed to prepare uploads dir", "dir", cfg.Server.UploadsDir, "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Events.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, logger)
		logger.Info("event publishing enabled", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close publisher", "error", err)
		}
	}()

	pipeline := server.NewPipeline(ctx, cfg.OCR, logger)
	svc := entries.NewService(store.Repo, docs, pipeline, logger, entries.WithPublisher(publisher))

	queue := async.NewProcessorQueue(svc, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.JobTimeout),
	)
	svc.SetQueue(queue)

	reports := export.NewService(store.Repo, logger)
	router := api.NewRouter(api.NewHandler(svc, reports, logger), docs.Dir(), logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	grpcServer, hs := server.NewGRPCServer()
	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Error("grpc listen", "addr", cfg.Server.GRPCAddr, "error", err)
			os.Exit(1)
		}
		go func() {
			logger.Info("grpc health serving", "addr", cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("grpc serve", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down...")
	hs.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	logger.Info("stopped")
}
