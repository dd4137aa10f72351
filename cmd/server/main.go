package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/codex-skill-tracker/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-skill-tracker/internal/adapters/kafka/producer"
	"github.com/ogurasousui/codex-skill-tracker/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
	"github.com/ogurasousui/codex-skill-tracker/internal/platform/config"
	pg "github.com/ogurasousui/codex-skill-tracker/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-skill-tracker/internal/platform/logger"
	"github.com/ogurasousui/codex-skill-tracker/internal/platform/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database, log.Logger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool,
		pg.WithIsolationLevel(cfg.Database.IsolationLevel),
		pg.WithTxLogger(log.Logger),
	)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)

	var publisher employee.EventPublisher
	if cfg.Kafka.Enabled {
		eventProducer, err := producer.New(cfg.Kafka, log.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := eventProducer.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close kafka producer")
			}
		}()
		publisher = eventProducer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka events enabled")
	}

	employeeSvc := employee.NewService(employeeRepo, nil, txManager, publisher)

	h := handler.NewHandler(employeeSvc, dbPool)
	httpServer := server.New(cfg.Server, handler.Wrap(handler.NewRouter(h).Handler, cfg.CORS.AllowedOrigin))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(gctx)
	})

	return g.Wait()
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
