package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store"
	"github.com/wael7705/khawam-pro-sub000/store/memory"
	"github.com/wael7705/khawam-pro-sub000/store/postgres"
	rstore "github.com/wael7705/khawam-pro-sub000/store/redis"
	"github.com/wael7705/khawam-pro-sub000/store/sqlite"
	"github.com/wael7705/khawam-pro-sub000/wizard"
)

var (
	configPath  string
	baseURL     string
	redisURL    string
	sqlitePath  string
	postgresURL string
	codecName   string
	verbose     bool

	eng *wizard.Engine
	kv  store.Store
	rdb *redis.Client
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "orderflowctl",
		Short:         "Inspect order workflows and the wizard resume cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if kv != nil {
				err = kv.Close()
			}
			if rdb != nil {
				err = errors.Join(err, rdb.Close())
			}
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "order API base URL (overrides config)")
	root.PersistentFlags().StringVar(&redisURL, "redis", "", "redis URL for the resume cache (e.g. redis://localhost:6379/0)")
	root.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "SQLite file for the resume cache")
	root.PersistentFlags().StringVar(&postgresURL, "postgres", "", "PostgreSQL connection string for the resume cache")
	root.PersistentFlags().StringVar(&codecName, "codec", "", "snapshot codec: json or msgpack (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(stepsCmd(), cacheCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func setup(ctx context.Context) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := orderflow.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if codecName != "" {
		cfg.SnapshotCodec = codecName
	}

	kv, err = openStore(ctx, logger)
	if err != nil {
		return err
	}
	if err := kv.Migrate(ctx); err != nil {
		return err
	}

	of, err := orderflow.New(
		orderflow.WithConfig(cfg),
		orderflow.WithLogger(logger),
		orderflow.WithStore(kv),
	)
	if err != nil {
		return err
	}
	eng, err = wizard.Build(of)
	return err
}

func openStore(ctx context.Context, logger *slog.Logger) (store.Store, error) {
	set := 0
	for _, v := range []string{redisURL, sqlitePath, postgresURL} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, errors.New("pick one of --redis, --sqlite, --postgres")
	}

	switch {
	case redisURL != "":
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
		return rstore.New(rdb, rstore.WithLogger(logger)), nil
	case sqlitePath != "":
		s, err := sqlite.Open(ctx, sqlitePath, sqlite.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	case postgresURL != "":
		s, err := postgres.New(ctx, postgresURL, postgres.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return memory.New(), nil
	}
}
