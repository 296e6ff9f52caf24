// Package mcpsrv exposes the zodiac catalogue as MCP tools.
package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/qyinm/zodiactui/catalog"
	"github.com/qyinm/zodiactui/dto"
	"github.com/qyinm/zodiactui/types"
)

const maxLimit = 100

type zodiacListArgs struct {
	Query   string `json:"query,omitempty" jsonschema:"Optional case-insensitive substring of the sign name"`
	Element string `json:"element,omitempty" jsonschema:"Optional exact element, e.g. Fire"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Optional maximum number of items"`
}

type zodiacGetArgs struct {
	Name string `json:"name" jsonschema:"Zodiac sign name, case-insensitive"`
}

type zodiacListOutput struct {
	Query   string      `json:"query"`
	Element string      `json:"element"`
	Total   int         `json:"total"`
	Matched int         `json:"matched"`
	Items   []dto.Entry `json:"items"`
}

type zodiacGetOutput struct {
	Item dto.Entry `json:"item"`
}

type elementListOutput struct {
	Items []string `json:"items"`
	// Derived is true when the API had no element list and the values were
	// collected from the catalogue instead.
	Derived bool `json:"derived"`
}

type cacheClearOutput struct {
	Status string `json:"status"`
}

type ServerOptions struct {
	EnableAdmin bool
	APIKey      string
	Logger      *zap.Logger
}

func NewServer(source types.EntrySource, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	if opts == nil {
		opts = &ServerOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{source: source, logger: logger}

	server := mcp.NewServer(&mcp.Implementation{Name: "zodiactui", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "zodiac_list",
		Description: "List zodiac signs, optionally filtered by name substring and element.",
	}, h.zodiacList)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "zodiac_get",
		Description: "Get a zodiac sign by name.",
	}, h.zodiacGet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "zodiac_random",
		Description: "Pick a random zodiac sign.",
	}, h.zodiacRandom)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "element_list",
		Description: "List the elements zodiac signs can be filtered by.",
	}, h.elementList)

	if opts.EnableAdmin && strings.TrimSpace(opts.APIKey) != "" {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "cache_clear",
			Description: "Clear the API client cache (admin).",
		}, h.cacheClear)
	}

	return server
}

type handlers struct {
	source types.EntrySource
	logger *zap.Logger
}

func (h *handlers) zodiacList(ctx context.Context, _ *mcp.CallToolRequest, args zodiacListArgs) (*mcp.CallToolResult, zodiacListOutput, error) {
	c, err := catalog.NewStore(h.source).Load(ctx)
	if err != nil {
		h.logger.Warn("zodiac_list failed", zap.Error(err))
		return errorToolResult("fetch zodiac signs failed"), zodiacListOutput{}, nil
	}

	criteria := types.FilterCriteria{Query: args.Query, Element: strings.TrimSpace(args.Element)}
	matched := catalog.Apply(c, criteria)
	items := applyLimit(matched, args.Limit)

	return nil, zodiacListOutput{
		Query:   args.Query,
		Element: criteria.Element,
		Total:   c.Len(),
		Matched: len(matched),
		Items:   dto.FromEntries(items),
	}, nil
}

func (h *handlers) zodiacGet(ctx context.Context, _ *mcp.CallToolRequest, args zodiacGetArgs) (*mcp.CallToolResult, zodiacGetOutput, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return errorToolResult("name is required"), zodiacGetOutput{}, nil
	}

	e, err := h.source.FetchEntry(ctx, name)
	if errors.Is(err, types.ErrEntryNotFound) {
		return errorToolResult(fmt.Sprintf("zodiac sign %q not found", name)), zodiacGetOutput{}, nil
	}
	if err != nil {
		h.logger.Warn("zodiac_get failed", zap.String("name", name), zap.Error(err))
		return errorToolResult("fetch zodiac sign failed"), zodiacGetOutput{}, nil
	}
	return nil, zodiacGetOutput{Item: dto.FromEntry(e)}, nil
}

func (h *handlers) zodiacRandom(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, zodiacGetOutput, error) {
	e, err := h.source.FetchRandomEntry(ctx)
	if err != nil {
		h.logger.Warn("zodiac_random failed", zap.Error(err))
		return errorToolResult("fetch random zodiac sign failed"), zodiacGetOutput{}, nil
	}
	return nil, zodiacGetOutput{Item: dto.FromEntry(e)}, nil
}

func (h *handlers) elementList(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, elementListOutput, error) {
	elements, err := h.source.FetchElements(ctx)
	if err == nil && len(elements) > 0 {
		return nil, elementListOutput{Items: elements}, nil
	}
	if err != nil {
		h.logger.Warn("element list unavailable, deriving from catalogue", zap.Error(err))
	}

	c, err := catalog.NewStore(h.source).Load(ctx)
	if err != nil {
		h.logger.Warn("element_list failed", zap.Error(err))
		return errorToolResult("fetch elements failed"), elementListOutput{}, nil
	}
	derived := c.Elements()
	if derived == nil {
		derived = []string{}
	}
	return nil, elementListOutput{Items: derived, Derived: true}, nil
}

func (h *handlers) cacheClear(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, cacheClearOutput, error) {
	clearable, ok := h.source.(cacheClearer)
	if !ok {
		return errorToolResult("cache clear is not supported by this source"), cacheClearOutput{}, nil
	}
	clearable.ClearCache()
	h.logger.Info("cache cleared")
	return nil, cacheClearOutput{Status: "ok"}, nil
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func applyLimit[T any](items []T, limit int) []T {
	if limit > maxLimit {
		limit = maxLimit
	}
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
