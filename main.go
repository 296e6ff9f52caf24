package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qyinm/zodiactui/client"
	"github.com/qyinm/zodiactui/config"
	"github.com/qyinm/zodiactui/logging"
	"github.com/qyinm/zodiactui/ui"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "zodiactui",
	Short:   "Browse the zodiac catalogue in your terminal",
	Long:    "zodiactui loads the zodiac catalogue from the zodiac API and lets you search it, filter it by element and read each sign's details.",
	Version: version,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		return config.Init(cfgFile)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .zodiac.yaml)")
	rootCmd.Flags().String("api-url", "", "zodiac API base URL (default http://localhost:5000)")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout")
	rootCmd.Flags().String("log-file", "", "write logs to this file")
	rootCmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("api_url", rootCmd.Flags().Lookup("api-url"))
	_ = viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("log.file", rootCmd.Flags().Lookup("log-file"))
	_ = viper.BindPFlag("log.level", rootCmd.Flags().Lookup("log-level"))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.ForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	source := client.New(cfg.APIURL,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger.Named("client")),
	)

	p := tea.NewProgram(ui.NewModel(source, logger.Named("ui")), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
