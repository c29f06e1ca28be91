// refresh-quotes pulls the transfer pool, squads, and budgets for a league
// into the snapshot store the MCP server reads from.
package main

import (
	"flag"
	"log"
	"strings"

	"fanta-market-mcp/internal/config"
	"fanta-market-mcp/internal/fetch"
	"fanta-market-mcp/internal/store"
)

func main() {
	var (
		leagueID   = flag.Int("league", 0, "league id (required)")
		managers   = flag.String("managers", "", "comma-separated manager slugs")
		rawRoot    = flag.String("raw-root", "", "snapshot root (overrides config)")
		baseURL    = flag.String("base-url", "", "quotation service base URL (overrides config)")
		configPath = flag.String("config", "config.toml", "TOML config file")
		force      = flag.Bool("force", false, "refetch even if snapshots exist")
	)
	flag.Parse()

	if *leagueID == 0 {
		log.Fatal("-league is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *rawRoot == "" {
		*rawRoot = cfg.Data.RawRoot
	}
	if *baseURL == "" {
		*baseURL = cfg.Data.BaseURL
	}

	var names []string
	for _, m := range strings.Split(*managers, ",") {
		if m = strings.TrimSpace(m); m != "" {
			names = append(names, m)
		}
	}

	client := fetch.NewClient(store.New(*rawRoot), *baseURL)
	if err := client.RefreshLeague(*leagueID, names, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("refreshed league %d (%d managers) into %s", *leagueID, len(names), *rawRoot)
}
