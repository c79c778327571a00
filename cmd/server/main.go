package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"indexdb/pkg/api"
	"indexdb/pkg/config"
	"indexdb/pkg/core"
	"indexdb/pkg/logging"
	"indexdb/pkg/network"
	"indexdb/pkg/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	seedPath   string
	indexKind  string

	rootCmd = &cobra.Command{
		Use:          "indexdb-server",
		Short:        "Serve an in-memory record heap with id and last-name indexes",
		SilenceUsage: true,
		RunE:         runServer,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to indexdb.yaml (default: search ./configs and .)")
	rootCmd.Flags().StringVar(&seedPath, "seed", "", "csv or sqlite file to load at startup (overrides seed.path)")
	rootCmd.Flags().StringVar(&indexKind, "index", "", "index backend: bst or btree (overrides index.kind)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seedPath != "" {
		cfg.Seed.Path, cfg.Seed.Format = seedPath, ""
	}
	if indexKind != "" {
		cfg.Index.Kind = string(core.ParseKind(indexKind))
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine := core.NewEngine(cfg, logger.Named("engine"))
	if cfg.Seed.Path != "" {
		if err := seed(engine, cfg.Seed, logger); err != nil {
			return err
		}
	}

	var mu sync.Mutex
	tcp := network.NewTCPServer(engine, &mu, logger)
	httpSrv := api.NewServer(engine, &mu, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tcp.Start(cfg.Server.TCPAddr) })
	g.Go(func() error { return httpSrv.Start(cfg.Server.Addr) })
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tcp.Close()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func seed(engine *core.Engine, sc config.SeedConfig, logger *zap.Logger) error {
	src, err := storage.Open(sc.Path, sc.Format)
	if err != nil {
		return err
	}
	defer src.Close()

	start := time.Now()
	n, err := storage.LoadInto(engine, src)
	if err != nil {
		return fmt.Errorf("seed %s: %w", sc.Path, err)
	}
	logger.Info("seeded engine",
		zap.String("path", sc.Path),
		zap.Int("records", n),
		zap.Int("live", engine.Live()),
		zap.Duration("took", time.Since(start)))
	return nil
}
