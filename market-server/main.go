package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"fanta-market-mcp/internal/config"
	"fanta-market-mcp/internal/engine"
	"fanta-market-mcp/internal/session"
)

// ServerConfig is the resolved runtime configuration: data locations plus
// the engine tunables from the TOML file.
type ServerConfig struct {
	RawRoot   string
	Engine    engine.Config
	BaseSlots int
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListCapabilitiesArgs struct{}

func main() {
	var (
		addr        = flag.String("addr", "", "HTTP listen address (overrides config)")
		mcpPath     = flag.String("path", "", "HTTP path for MCP endpoint (overrides config)")
		rawRoot     = flag.String("raw-root", "", "root directory for snapshot JSON (overrides config)")
		configPath  = flag.String("config", "config.toml", "TOML config file")
		requireAuth = flag.Bool("require-auth", true, "require API key auth via FANTA_MCP_API_KEY")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	)
	flag.Parse()

	fileCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr == "" {
		*addr = fileCfg.Server.Addr
	}
	if *mcpPath == "" {
		*mcpPath = fileCfg.Server.Path
	}
	if *rawRoot == "" {
		*rawRoot = fileCfg.Data.RawRoot
	}

	cfg := ServerConfig{
		RawRoot: *rawRoot,
		Engine: engine.Config{
			CostWeight:         fileCfg.Engine.CostWeight,
			ClubCap:            fileCfg.Engine.ClubCap,
			MaxSolutions:       fileCfg.Engine.MaxSolutions,
			LowConfidenceBelow: fileCfg.Engine.LowConfidenceBelow,
		},
		BaseSlots: fileCfg.Engine.BaseOutgoingSlots,
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fanta-market-mcp",
			Version: "0.1.0",
		},
		nil,
	)

	sessions := session.NewRegistry()
	registry := make([]toolInfo, 0, 16)

	addTool(server, &registry, &mcp.Tool{
		Name:        "transfer_recommendations",
		Description: "Up to 3 distinct swap sets for the players you want to release",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TransferRecommendationsArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildTransferRecommendations(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "guided_start",
		Description: "Open a guided market session over the current snapshots",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuidedStartArgs) (*mcp.CallToolResult, any, error) {
		out, err := startGuidedSession(cfg, sessions, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "guided_set_outgoing",
		Description: "Replace the session's outgoing player selection",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuidedOutgoingArgs) (*mcp.CallToolResult, any, error) {
		out, err := setGuidedOutgoing(sessions, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "guided_compute",
		Description: "Run one refinement round: pinned swaps kept, the rest recomputed",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuidedSessionArgs) (*mcp.CallToolResult, any, error) {
		out, err := computeGuided(sessions, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "guided_fix",
		Description: "Pin a computed swap so later rounds keep it",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuidedPlayerArgs) (*mcp.CallToolResult, any, error) {
		out, err := fixGuidedSwap(sessions, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "guided_dislike",
		Description: "Reject an incoming player; the session never suggests them again",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuidedPlayerArgs) (*mcp.CallToolResult, any, error) {
		out, err := dislikeGuided(sessions, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "guided_reset",
		Description: "Clear pins, exclusions, and results; keep the session open",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuidedSessionArgs) (*mcp.CallToolResult, any, error) {
		out, err := resetGuided(sessions, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "current_roster",
		Description: "The manager's normalized squad with values and scores",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RosterArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildCurrentRoster(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		return toolJSONBytes(b), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "player_lookup",
		Description: "Lookup a transfer-pool player by name",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerLookupArgs) (*mcp.CallToolResult, any, error) {
		out, err := lookupPoolPlayer(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		return toolJSONBytes(b), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "list_capabilities",
		Description: "List every tool this server exposes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListCapabilitiesArgs) (*mcp.CallToolResult, any, error) {
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		return toolJSONBytes(b), nil, nil
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(os.Getenv("FANTA_MCP_API_KEY"))
	if *requireAuth && apiKey == "" {
		log.Fatal("FANTA_MCP_API_KEY is required (set env var or run with --require-auth=false)")
	}

	withAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(*authHeader))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}

	http.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))

	http.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}))

	http.HandleFunc(*mcpPath, withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))

	log.Printf("MCP HTTP server listening on %s%s", *addr, *mcpPath)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal(err)
	}
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	kind := "error"
	if engine.IsInputError(err) {
		kind = "input_error"
	} else if errors.Is(err, engine.ErrNoCandidates) {
		kind = "no_candidates"
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %v", kind, err)},
		},
	}
}
