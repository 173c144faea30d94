// Command greensim runs the social-identity behaviour and carbon-emission
// simulation: a network of individuals whose attitudes evolve under social
// influence, with results written to SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/greensim/internal/config"
	"github.com/talgya/greensim/internal/network"
	"github.com/talgya/greensim/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to YAML run configuration (defaults used when empty)")
	seed := flag.Uint64("seed", 0, "override the configured seed (0 = keep)")
	steps := flag.Int("steps", 0, "override the configured step count (0 = keep)")
	dbPath := flag.String("db", "", "override the configured database path")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *steps != 0 {
		cfg.Steps = *steps
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("greensim — social identity & carbon emission simulation",
		"agents", humanize.Comma(int64(cfg.Agents)),
		"behaviours", cfg.Behaviours,
		"steps", humanize.Comma(int64(cfg.Steps)),
		"mode", cfg.AlphaChange,
		"seed", cfg.Seed,
	)

	net, err := network.New(cfg)
	if err != nil {
		slog.Error("failed to build network", "error", err)
		os.Exit(1)
	}

	// SIGINT/SIGTERM stops the loop early; whatever was recorded up to the
	// cancelled tick is still persisted.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	if err := net.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	runID, err := db.SaveRun(net)
	if err != nil {
		slog.Error("failed to save run", "error", err)
		os.Exit(1)
	}

	rows, err := db.AgentSeriesCount(runID)
	if err != nil {
		slog.Error("failed to count saved rows", "error", err)
		os.Exit(1)
	}

	final := net.Stats[len(net.Stats)-1]
	slog.Info("run complete",
		"run_id", runID,
		"ticks", humanize.Comma(int64(net.CurrentTick())),
		"elapsed", elapsed.Round(time.Millisecond),
		"agent_rows", humanize.Comma(int64(rows)),
		"final_mean_identity", fmt.Sprintf("%.4f", final.MeanIdentity),
		"final_total_emissions", fmt.Sprintf("%.2f", final.TotalEmissions),
		"final_green_fraction", fmt.Sprintf("%.3f", final.GreenFraction),
	)
}
