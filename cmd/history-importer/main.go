package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/history"
	"github.com/goodnatureofminers/walletmigrate-backend/internal/journal"
	chjournal "github.com/goodnatureofminers/walletmigrate-backend/internal/journal/clickhouse"
	"github.com/goodnatureofminers/walletmigrate-backend/internal/metrics"
	"github.com/goodnatureofminers/walletmigrate-backend/internal/primal"
	"github.com/goodnatureofminers/walletmigrate-backend/internal/store/sqlstore"
)

type config struct {
	StoreDriver string `long:"store-driver" env:"HISTORY_IMPORTER_STORE_DRIVER" description:"wallet store driver (sqlite or pgx)" default:"sqlite"`
	StoreDSN    string `long:"store-dsn" env:"HISTORY_IMPORTER_STORE_DSN" description:"wallet store DSN" required:"true"`

	PrimalURL     string        `long:"primal-url" env:"HISTORY_IMPORTER_PRIMAL_URL" description:"custodial wallet API base URL" required:"true"`
	PrimalToken   string        `long:"primal-token" env:"HISTORY_IMPORTER_PRIMAL_TOKEN" description:"custodial wallet API bearer token"`
	PrimalTimeout time.Duration `long:"primal-timeout" env:"HISTORY_IMPORTER_PRIMAL_TIMEOUT" description:"HTTP timeout for custodial wallet API requests" default:"30s"`
	PrimalRPS     int           `long:"primal-rps" env:"HISTORY_IMPORTER_PRIMAL_RPS" description:"custodial wallet API requests per second, 0 for unlimited" default:"20"`

	Interval    time.Duration `long:"interval" env:"HISTORY_IMPORTER_INTERVAL" description:"pause between resume runs" default:"1m"`
	Concurrency int           `long:"concurrency" env:"HISTORY_IMPORTER_CONCURRENCY" description:"wallets imported in parallel" default:"4"`
	BatchSize   int           `long:"batch-size" env:"HISTORY_IMPORTER_BATCH_SIZE" description:"incomplete wallets picked per run" default:"100"`
	MaxPages    int           `long:"max-pages" env:"HISTORY_IMPORTER_MAX_PAGES" description:"pages per wallet and run, 0 for no limit" default:"0"`
	PageSize    int           `long:"page-size" env:"HISTORY_IMPORTER_PAGE_SIZE" description:"transactions per ledger page" default:"50"`

	ClickhouseDSN string `long:"clickhouse-dsn" env:"HISTORY_IMPORTER_CLICKHOUSE_DSN" description:"ClickHouse DSN of the migration journal, empty disables it"`

	Addr        string `long:"addr" env:"HISTORY_IMPORTER_ADDR" description:"gRPC health addr" default:":8000"`
	MetricsAddr string `long:"metrics-addr" env:"HISTORY_IMPORTER_METRICS_ADDR" description:"metrics addr" default:":8001"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("history importer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	store, err := sqlstore.Open(sqlstore.Driver(cfg.StoreDriver), cfg.StoreDSN, metrics.NewStore(cfg.StoreDriver))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("close store", zap.Error(closeErr))
		}
	}()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	ledger, err := primal.NewClient(primal.Config{
		BaseURL: cfg.PrimalURL,
		Token:   cfg.PrimalToken,
		Timeout: cfg.PrimalTimeout,
		RPS:     cfg.PrimalRPS,
	}, metrics.NewPrimalClient())
	if err != nil {
		return fmt.Errorf("init primal client: %w", err)
	}

	var events history.Journal
	if cfg.ClickhouseDSN != "" {
		repo, err := chjournal.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init journal repository: %w", err)
		}
		defer func() {
			_ = repo.Close()
		}()

		recorder := journal.NewRecorder(repo, logger, journal.DefaultConfig())
		recorder.Start(ctx)
		defer recorder.Stop()
		events = recorder
	}

	importer := history.NewImporter(
		ledger,
		store,
		nil,
		metrics.NewHistoryImporter("background"),
		logger,
		history.Config{PageSize: cfg.PageSize},
	)

	resumerCfg := history.ResumerConfig{
		Interval:    cfg.Interval,
		Concurrency: cfg.Concurrency,
		BatchSize:   cfg.BatchSize,
	}
	if cfg.MaxPages > 0 {
		resumerCfg.MaxPages = &cfg.MaxPages
	}
	resumer := history.NewResumer(importer, store, events, logger, resumerCfg)

	healthSrv := health.NewServer()
	if err := serveGRPC(ctx, cfg.Addr, healthSrv, logger); err != nil {
		return err
	}
	serveMetrics(ctx, cfg.MetricsAddr, logger)

	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	defer healthSrv.Shutdown()

	return resumer.Run(ctx)
}

func serveGRPC(ctx context.Context, addr string, healthSrv *health.Server, logger *zap.Logger) error {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("serve gRPC", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()
	return nil
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to listen and serve", zap.Error(err))
		}
	}()
}
