// Package config loads zodiactui settings from .zodiac.yaml, ZODIAC_* env
// vars and command flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/qyinm/zodiactui/httpx"
)

const EnvPrefix = "ZODIAC"

// LogConfig controls the zap logger built by the logging package.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// File receives log output. The TUI logs nowhere when it is empty.
	File string `mapstructure:"file"`
}

// ServerConfig holds settings for the zodiac API server.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	DataFile       string   `mapstructure:"data_file"`
	Watch          bool     `mapstructure:"watch"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RPS            float64  `mapstructure:"rps"`
	Burst          int      `mapstructure:"burst"`
}

// MCPConfig holds settings for the MCP server.
type MCPConfig struct {
	Port               string        `mapstructure:"port"`
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
	Stateless          bool          `mapstructure:"stateless"`
	EnableAdmin        bool          `mapstructure:"enable_admin"`
	APIKey             string        `mapstructure:"api_key"`
	RPS                float64       `mapstructure:"rps"`
	Burst              int           `mapstructure:"burst"`
	SessionTimeout     time.Duration `mapstructure:"session_timeout"`
	CacheClearInterval time.Duration `mapstructure:"cache_clear_interval"`
}

// Config holds all runtime configuration.
type Config struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	MCP     MCPConfig     `mapstructure:"mcp"`
}

// SetDefaults registers the built-in value of every key. Keys need a
// default for AutomaticEnv to pick them up during Unmarshal.
func SetDefaults() {
	viper.SetDefault("api_url", "http://localhost:5000")
	viper.SetDefault("timeout", 10*time.Second)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.data_file", "")
	viper.SetDefault("server.watch", false)
	viper.SetDefault("server.allowed_origins", []string{"*"})
	viper.SetDefault("server.rps", 50.0)
	viper.SetDefault("server.burst", 100)

	viper.SetDefault("mcp.port", "8080")
	viper.SetDefault("mcp.allowed_origins", []string{})
	viper.SetDefault("mcp.stateless", false)
	viper.SetDefault("mcp.enable_admin", false)
	viper.SetDefault("mcp.api_key", "")
	viper.SetDefault("mcp.rps", float64(httpx.DefaultRPS))
	viper.SetDefault("mcp.burst", httpx.DefaultBurst)
	viper.SetDefault("mcp.session_timeout", 15*time.Minute)
	viper.SetDefault("mcp.cache_clear_interval", 30*time.Minute)
}

// Init points viper at cfgFile, or at .zodiac.yaml in the working or home
// directory, and enables ZODIAC_* env overrides such as ZODIAC_MCP_API_KEY.
// A missing config file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".zodiac")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Hosting platforms hand the MCP server its port through PORT.
	_ = viper.BindEnv("mcp.port", EnvPrefix+"_MCP_PORT", "PORT")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimSpace(c.APIURL)
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	c.MCP.Port = strings.TrimSpace(c.MCP.Port)
	c.Server.AllowedOrigins = trimAll(c.Server.AllowedOrigins)
	c.MCP.AllowedOrigins = trimAll(c.MCP.AllowedOrigins)
	if c.MCP.RPS <= 0 {
		c.MCP.RPS = httpx.DefaultRPS
	}
	if c.MCP.Burst <= 0 {
		c.MCP.Burst = httpx.DefaultBurst
	}
	if c.Server.RPS <= 0 {
		c.Server.RPS = httpx.DefaultRPS
	}
	if c.Server.Burst <= 0 {
		c.Server.Burst = httpx.DefaultBurst
	}
}

// AdminEnabled reports whether admin tools may be exposed. They require an
// API key.
func (c MCPConfig) AdminEnabled() bool {
	return c.EnableAdmin && c.APIKey != ""
}

// HTTPOptions returns the middleware options for the MCP endpoint.
func (c MCPConfig) HTTPOptions() httpx.Options {
	return httpx.Options{
		AllowedOrigins: c.AllowedOrigins,
		RPS:            c.RPS,
		Burst:          c.Burst,
		APIKey:         c.APIKey,
		Methods:        "GET, POST, DELETE, OPTIONS",
		Headers:        "Content-Type, Accept, Authorization, X-API-Key, Mcp-Protocol-Version, Mcp-Session-Id",
	}
}

// HTTPOptions returns the middleware options for the API routes. The API
// is read-only and public, so no key is required.
func (c ServerConfig) HTTPOptions() httpx.Options {
	return httpx.Options{
		AllowedOrigins: c.AllowedOrigins,
		RPS:            c.RPS,
		Burst:          c.Burst,
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		// Values from env arrive as one comma separated string.
		for _, part := range strings.Split(s, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
