package mcpsrv

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/qyinm/zodiactui/config"
)

func NewHandler(server *mcp.Server, opts *mcp.StreamableHTTPOptions) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, opts)
}

func StreamableOptions(cfg config.MCPConfig) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}

type cacheClearer interface {
	ClearCache()
}

// ClearCachePeriodically clears source's cache every interval until ctx is
// done. Sources without a cache and non-positive intervals are ignored.
func ClearCachePeriodically(ctx context.Context, source any, interval time.Duration) {
	clearable, ok := source.(cacheClearer)
	if !ok || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				clearable.ClearCache()
			case <-ctx.Done():
				return
			}
		}
	}()
}
