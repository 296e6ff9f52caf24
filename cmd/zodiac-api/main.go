package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/qyinm/zodiactui/api"
	"github.com/qyinm/zodiactui/config"
	"github.com/qyinm/zodiactui/httpx"
	"github.com/qyinm/zodiactui/logging"
)

var rootCmd = &cobra.Command{
	Use:   "zodiac-api",
	Short: "Serve the zodiac catalogue as JSON",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		return config.Init(cfgFile)
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .zodiac.yaml)")
	rootCmd.Flags().String("port", "", "listen port (default 5000)")
	rootCmd.Flags().String("data", "", "dataset file (.json or .yaml); built-in signs when empty")
	rootCmd.Flags().Bool("watch", false, "reload the dataset file when it changes")

	_ = viper.BindPFlag("server.port", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.data_file", rootCmd.Flags().Lookup("data"))
	_ = viper.BindPFlag("server.watch", rootCmd.Flags().Lookup("watch"))
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := api.NewDataset(cfg.Server.DataFile)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		zap.String("file", cfg.Server.DataFile),
		zap.Int("entries", data.Catalogue().Len()))

	if cfg.Server.Watch && cfg.Server.DataFile != "" {
		watcher, err := api.NewWatcher(data, logger.Named("watcher"))
		if err != nil {
			return fmt.Errorf("watch dataset: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("watch dataset: %w", err)
		}
		defer watcher.Stop()
	}

	server := api.NewServer(data, api.WithLogger(logger.Named("http")))
	httpServer := &http.Server{
		Addr:              ":" + strings.TrimSpace(cfg.Server.Port),
		Handler:           httpx.Wrap(server.Handler(), cfg.Server.HTTPOptions()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("zodiac-api listening", zap.String("addr", httpServer.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
