package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	catalogpb "github.com/civicatlas/artcatalog/gen/proto/artcatalog/v1"
	"github.com/civicatlas/artcatalog/internal/adapters"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/export"
	repo "github.com/civicatlas/artcatalog/internal/repository"
	svc "github.com/civicatlas/artcatalog/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entc, pool, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(entc, pool, logger)

	if err := repo.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()

	artworks := repo.NewArtworkRepository(entc, logger)
	artists := repo.NewArtistRepository(entc, logger)
	submissions := repo.NewSubmissionRepository(entc, logger)
	audit := repo.NewAuditRepository(entc, logger)

	registry, err := adapters.NewRegistry()
	if err != nil {
		logger.Error("failed to build adapter registry", "error", err)
		os.Exit(1)
	}

	importService := svc.NewImportServer(registry, artworks, submissions, artists, audit, cfg.Import, logger)
	catalogpb.RegisterImportServiceServer(grpcServer, importService)
	catalogService := svc.NewCatalogServer(artworks, artists, submissions, logger)
	catalogpb.RegisterCatalogServiceServer(grpcServer, catalogService)
	exportService := svc.NewExportServer(export.NewService(artworks, logger), logger)
	catalogpb.RegisterExportServiceServer(grpcServer, exportService)

	// Register gRPC health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// Reflection for grpcurl
	reflection.Register(grpcServer)

	logger.Info("catalogd listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	grpcServer.GracefulStop()
	importService.Shutdown(context.Background())
}
