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

	"github.com/qyinm/zodiactui/client"
	"github.com/qyinm/zodiactui/config"
	"github.com/qyinm/zodiactui/httpx"
	"github.com/qyinm/zodiactui/logging"
	"github.com/qyinm/zodiactui/mcpsrv"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "zodiac-mcp",
	Short: "Serve zodiac tools over streamable HTTP MCP",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		return config.Init(cfgFile)
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .zodiac.yaml)")
	rootCmd.Flags().String("port", "", "listen port (default 8080, or $PORT)")
	rootCmd.Flags().String("api-url", "", "zodiac API base URL")

	_ = viper.BindPFlag("mcp.port", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("api_url", rootCmd.Flags().Lookup("api-url"))
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

	source := client.New(cfg.APIURL,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger.Named("client")))
	server := mcpsrv.NewServer(source, version, &mcpsrv.ServerOptions{
		EnableAdmin: cfg.MCP.AdminEnabled(),
		APIKey:      cfg.MCP.APIKey,
		Logger:      logger.Named("mcp"),
	})
	mcpsrv.ClearCachePeriodically(ctx, source, cfg.MCP.CacheClearInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mcpHandler := mcpsrv.NewHandler(server, mcpsrv.StreamableOptions(cfg.MCP))
	mux.Handle("/mcp", httpx.Wrap(mcpHandler, cfg.MCP.HTTPOptions()))

	httpServer := &http.Server{
		Addr:              ":" + strings.TrimSpace(cfg.MCP.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
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

	logger.Info("zodiac-mcp listening",
		zap.String("addr", httpServer.Addr),
		zap.String("api_url", cfg.APIURL),
		zap.Bool("admin", cfg.MCP.AdminEnabled()))
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
