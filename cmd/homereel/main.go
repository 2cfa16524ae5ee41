package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"homereel/pkg/cache"
	"homereel/pkg/config"
	"homereel/pkg/db"
	"homereel/pkg/llm/prompts"
	"homereel/pkg/logging"
	"homereel/pkg/model"
	"homereel/pkg/request"
	"homereel/pkg/sequencer"
	"homereel/pkg/store"
	"homereel/pkg/storyboard"
	"homereel/pkg/taxonomy"
	"homereel/pkg/tracker"
	"homereel/pkg/version"
)

// lastGenerationKey is the persistent-state key holding the most recent
// journal row id, surfaced by --report.
const lastGenerationKey = "last_generation_id"

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", "configs/homereel.yaml", "Path to config file")
	assetsPath = flag.String("assets", "", "Path to the listing assets JSON file")
	title      = flag.String("title", "", "Property title passed to the prompt")
	style      = flag.String("style", "", "Video style (default from config)")
	length     = flag.String("length", "", "Cut length override: short, medium or long")
	report     = flag.Bool("report", false, "Print recent generation records and exit")
	limit      = flag.Int("limit", 20, "Number of records to print with --report")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Best effort; API keys may come from the config file instead.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log, &cfg.History)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("HomeReel Started", "version", version.Version)

	dbConn, err := db.Init(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	if err := dbConn.PruneCache(config.Week); err != nil {
		slog.Warn("Cache prune failed", "error", err)
	}

	if *report {
		return printReport(ctx, st, os.Stdout)
	}

	if *assetsPath == "" {
		flag.Usage()
		return fmt.Errorf("--assets is required")
	}

	choice, err := storyboard.ParseCutChoice(*length)
	if err != nil {
		return err
	}

	assets, err := loadAssets(*assetsPath)
	if err != nil {
		return err
	}

	table := taxonomy.Default()
	if cfg.Storyboard.RoomsFile != "" {
		table, err = taxonomy.Load(cfg.Storyboard.RoomsFile)
		if err != nil {
			return fmt.Errorf("failed to load rooms file: %w", err)
		}
	}

	tr := tracker.New()
	rc := request.New(cache.NewSQLiteCache(dbConn), tr, &cfg.Request)

	provider, providerName, err := storyboard.NewProvider(cfg.LLM, cfg.History.LLM, rc, tr)
	if err != nil {
		return fmt.Errorf("failed to initialize oracle provider: %w", err)
	}

	pm, err := prompts.NewManager(cfg.Storyboard.PromptDir)
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	seq := sequencer.New(&cfg.Sequencer, table)
	svc := storyboard.NewService(provider, providerName, pm, seq, table, st, tr)

	reqStyle := *style
	if reqStyle == "" {
		reqStyle = cfg.Storyboard.DefaultStyle
	}

	req := &storyboard.Request{
		Assets:        assets,
		Style:         reqStyle,
		PropertyTitle: *title,
		Range:         storyboard.PickRange(len(assets), choice),
	}

	start := time.Now()
	result, rep, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	if rep.GenerationID != "" {
		if err := st.SetState(ctx, lastGenerationKey, rep.GenerationID); err != nil {
			slog.Warn("Failed to record last generation id", "error", err)
		}
	}

	slog.Info("Run complete",
		"provider", rep.Provider,
		"duration", time.Since(start).Round(time.Millisecond))
	logStats(tr)

	return printResult(result, rep, os.Stdout)
}

// logStats surfaces the run's counters so a log reader can see API usage
// and repair activity without opening the journal.
func logStats(tr *tracker.Tracker) {
	for provider, stats := range tr.Snapshot() {
		slog.Info("Provider stats", "provider", provider,
			"api_success", stats.APISuccess, "api_failures", stats.APIFailures,
			"malformed", stats.Malformed,
			"cache_hits", stats.CacheHits, "cache_misses", stats.CacheMisses)
	}
	totals := tr.TotalsSnapshot()
	slog.Info("Sequencing stats",
		"resequences", totals.Resequences, "range_violations", totals.RangeViolations)
}

func loadAssets(path string) ([]model.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets file: %w", err)
	}
	var assets []model.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse assets file: %w", err)
	}
	return assets, nil
}

// printResult writes the storyboard and the sequencing report as a single
// JSON document on stdout. Logs go to stderr, so the output stays pipeable.
func printResult(result *model.StoryboardResult, rep *storyboard.Report, w io.Writer) error {
	out := struct {
		Storyboard *model.StoryboardResult `json:"storyboard"`
		Report     *storyboard.Report      `json:"report"`
	}{result, rep}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printReport(ctx context.Context, st *store.SQLiteStore, w io.Writer) error {
	records, err := st.ListRecentGenerations(ctx, *limit)
	if err != nil {
		return fmt.Errorf("failed to list generations: %w", err)
	}

	lastID, _ := st.GetState(ctx, lastGenerationKey)
	out := struct {
		LastGenerationID string                    `json:"lastGenerationId,omitempty"`
		Generations      []*model.GenerationRecord `json:"generations"`
	}{lastID, records}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
