package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qyinm/zodiactui/client"
	"github.com/qyinm/zodiactui/config"
	"github.com/qyinm/zodiactui/logging"
	"github.com/qyinm/zodiactui/mcpsrv"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "zodiac-mcp-stdio",
	Short: "Serve zodiac tools over MCP stdio",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		return config.Init(cfgFile)
	},
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .zodiac.yaml)")
	rootCmd.Flags().String("api-url", "", "zodiac API base URL")
	_ = viper.BindPFlag("api_url", rootCmd.Flags().Lookup("api-url"))
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// stdout carries the protocol; logs go to stderr or the log file.
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

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("stdio mcp server failed: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
