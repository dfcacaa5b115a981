// Package main is the entry point for the prediction-market snipe engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/owade/polysniper/internal/alerting"
	"github.com/owade/polysniper/internal/config"
	"github.com/owade/polysniper/internal/engine"
	"github.com/owade/polysniper/internal/market"
	"github.com/owade/polysniper/internal/metrics"
	"github.com/owade/polysniper/internal/persistence"
	"github.com/owade/polysniper/internal/scanner"
	"github.com/owade/polysniper/internal/types"
	"github.com/owade/polysniper/internal/ui"
)

// Version information (set by build flags).
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Environment overrides from .env, if present.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		cmdRun(os.Args[2:])
	case "scan":
		cmdScan(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Polysniper - Prediction Market Snipe Order Engine

Usage:
  sniper <command> [options]

Commands:
  run        Start the snipe engine
  scan       Run a single market scan and print opportunities
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  sniper run --config config.yaml
  sniper scan --config config.yaml
  sniper validate --config config.yaml

Use "sniper <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("sniper version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Target discount: %.1f%%\n", cfg.Engine.TargetDiscount)
	fmt.Printf("  Max position size: $%.2f\n", cfg.Engine.MaxPositionSize)
	fmt.Printf("  Max concurrent orders: %d\n", cfg.Engine.MaxConcurrentOrders)
	fmt.Printf("  Daily loss limit: $%.2f\n", cfg.Engine.DailyLossLimit)
	fmt.Printf("  Scan interval: %ds\n", cfg.Engine.ScanIntervalSeconds)
	fmt.Printf("  Auto execute: %t\n", cfg.Engine.AutoExecute)
}

func cmdScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	verbose := fs.Bool("verbose", false, "Verbose output")
	fs.Parse(args)

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	venue := buildVenue(cfg, logger)
	s := scanner.New(venue, types.RealClock{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opps, err := s.Scan(ctx, cfg.ToSettings(), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	ui.RenderOpportunities(os.Stdout, opps)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	autoExecute := fs.Bool("auto", false, "Force auto execution on")
	fs.Parse(args)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	settings := cfg.ToSettings()
	if *autoExecute && !settings.RealTradingMode {
		settings.AutoExecute = true
	}

	slog.Info("sniper starting",
		"version", Version,
		"market", cfg.Market.Type,
		"auto_execute", settings.AutoExecute,
		"daily_loss_limit", cfg.Engine.DailyLossLimit,
	)

	// Persistence
	var repo persistence.Repository
	if cfg.Persistence.Enabled {
		sqliteRepo, err := persistence.NewSQLiteRepository(cfg.Persistence.Path)
		if err != nil {
			slog.Error("failed to open database", "path", cfg.Persistence.Path, "err", err)
			os.Exit(1)
		}
		repo = sqliteRepo
		defer func() { _ = sqliteRepo.Close() }()
	}

	// Alerting
	var alerter alerting.Alerter
	if cfg.Alerting.Enabled {
		multi := alerting.NewMultiAlerter(logger)
		for _, ch := range cfg.Alerting.Channels {
			switch ch.Type {
			case "console":
				multi.AddAlerter(alerting.NewConsoleAlerter(logger))
			case "telegram":
				multi.AddAlerter(alerting.NewTelegramAlerter(alerting.TelegramConfig{
					BotToken: ch.BotToken,
					ChatID:   ch.ChatID,
				}))
			}
		}
		alerter = multi
	}

	// Metrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		srvCfg := metrics.DefaultServerConfig()
		if cfg.Metrics.Port > 0 {
			srvCfg.Port = cfg.Metrics.Port
		}
		if cfg.Metrics.Path != "" {
			srvCfg.MetricsPath = cfg.Metrics.Path
		}
		metricsServer = metrics.NewServer(srvCfg, logger)
		metrics.SetBuildInfo(Version, GitCommit, BuildTime)
		if err := metricsServer.Start(); err != nil {
			slog.Error("failed to start metrics server", "err", err)
			os.Exit(1)
		}
	}

	venue := buildVenue(cfg, logger)

	engCfg := engine.DefaultConfig()
	engCfg.FillCheckInterval = cfg.FillCheckInterval()
	engCfg.OrderManageInterval = cfg.OrderManageInterval()
	engCfg.PriceRefreshInterval = cfg.PriceRefreshInterval()
	engCfg.LadderSpreadPercent = cfg.LadderSpread()

	eng := engine.NewEngine(engCfg, venue, repo, alerter, settings, types.RealClock{}, logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if metricsServer != nil {
		metricsServer.RegisterHealthCheck("engine", func() metrics.Check {
			if eng.RiskState().IsDailyLimitReached {
				return metrics.Check{Status: "unhealthy", Message: "daily loss limit reached"}
			}
			return metrics.Check{Status: "healthy"}
		})
	}

	if err := eng.Start(ctx); err != nil {
		slog.Error("failed to start engine", "err", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.ShutdownTimeout(),
	)
	defer cancel()

	if err := eng.Shutdown(shutdownCtx); err != nil {
		slog.Error("engine shutdown error", "err", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "err", err)
		}
	}

	slog.Info("sniper shutdown complete")
}

// buildVenue constructs the market client. Only the simulated venue is
// wired today; the Client interface is where a live venue would plug in.
func buildVenue(cfg *config.Config, logger *slog.Logger) market.Client {
	simCfg := market.DefaultSimConfig()
	if cfg.Market.RateLimitPerSecond > 0 {
		simCfg.RateLimitPerSecond = cfg.Market.RateLimitPerSecond
	}
	if cfg.Market.Seed != 0 {
		simCfg.Seed = cfg.Market.Seed
	}

	maxStep := cfg.Market.MaxStep
	if maxStep <= 0 {
		maxStep = 0.01
	}

	venue := market.NewSimClient(simCfg, market.NewRandomWalk(simCfg.Seed, maxStep), logger)
	venue.SeedUniverse()
	return venue
}
