package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"roomrank/internal/audit"
	"roomrank/internal/catalog"
	"roomrank/internal/configuration"
	"roomrank/internal/engine"
	"roomrank/internal/facts"
	"roomrank/internal/history"
	"roomrank/internal/metrics"
	"roomrank/internal/rank"
	"roomrank/internal/score/rule"
	"roomrank/internal/selector"
	"roomrank/internal/server"
	"roomrank/internal/signals"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// Set by build flags.
var version = "dev"

// prepareLogger installs a JSON slog logger on os.Stderr as the default.
// Unknown levels fall back to info.
func prepareLogger(level string) {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	root := &cobra.Command{
		Use:           "roomrank",
		Short:         "Meeting room ranking service",
		Long:          `roomrank scores candidate meeting rooms against weighted criteria and recommends the best one.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newRankCmd())

	if err := root.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ranking service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "/etc/roomrank/config.yaml", "configuration file")
	return cmd
}

// runServe runs the service until SIGINT or SIGTERM.
func runServe(configPath string) error {
	config, err := configuration.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}
	prepareLogger(config.Logger.Level)

	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	historyRepo := history.NewRepository(config.History.Length, config.History.Ttl)
	go historyRepo.Serve()
	defer historyRepo.Stop()
	metrics.RegisterHistoryClients(reg, historyRepo.Clients)

	var auditRepo audit.Repository = audit.Nop{}
	if config.Audit.File != "" {
		auditRepo = audit.NewJsonRepository(config.Audit.File, config.Audit.Size, config.Audit.Amount)
	}
	defer auditRepo.Close()

	service, err := newService(config, m, historyRepo, auditRepo)
	if err != nil {
		return err
	}

	router := server.NewApiV1Router(service, config.Server.TokenCookie)
	var limiter *server.RateLimiter
	if config.Server.RateLimit > 0 {
		limiter, err = server.NewRateLimiter(rate.Limit(config.Server.RateLimit), config.Server.Burst,
			config.Server.Limiters, router.Client, m)
		if err != nil {
			return fmt.Errorf("unable to initialize rate limiter: %w", err)
		}
	}
	srv := server.NewServer(config.Server.Address, router, limiter, reg)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			appCancel()
		}
	}()
	slog.Info("Server listening " + config.Server.Address)
	<-appCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")
	return nil
}

// newService loads the catalog and rules named by config.
func newService(config *configuration.AppConfig, m *metrics.Metrics, h *history.Repository, a audit.Repository) (*selector.Service, error) {
	c := catalog.Default()
	if config.Scoring.Catalog != "" {
		var err error
		if c, err = catalog.LoadFromFile(config.Scoring.Catalog); err != nil {
			return nil, fmt.Errorf("unable to load catalog: %w", err)
		}
	}

	var rules []rule.Rule
	if config.Scoring.Rules != "" {
		var err error
		if rules, err = rule.LoadFromFile(config.Scoring.Rules, facts.NewEnv); err != nil {
			return nil, fmt.Errorf("unable to load rules: %w", err)
		}
	}

	loc, err := config.Scoring.Location()
	if err != nil {
		return nil, err
	}

	opts := selector.Options{
		Catalog:        c,
		Rules:          rules,
		MaxTemperature: config.Scoring.MaxTemperature,
		Location:       loc,
		Simulate:       config.Simulator.Enabled,
		Seed:           config.Simulator.Seed,
	}
	if config.Scoring.SensorsURL != "" {
		opts.Sensors = signals.NewHTTP(config.Scoring.SensorsURL, config.Scoring.SensorsTimeout)
	}

	service, err := selector.New(opts, engine.New(config.Scoring.Concurrency, m), h, a)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize selector: %w", err)
	}
	return service, nil
}

// rankParams holds the parsed flags for the rank command.
type rankParams struct {
	scheme   string
	start    string
	maxTemp  float64
	simulate bool
	seed     uint64
	catalog  string
	rules    string
	logLevel string
	stdout   io.Writer
}

// runRank produces one ranking and writes it to p.stdout as JSON.
func runRank(ctx context.Context, p rankParams) error {
	prepareLogger(p.logLevel)

	config := &configuration.AppConfig{
		Scoring: configuration.ScoringConfig{
			Catalog:        p.catalog,
			Rules:          p.rules,
			MaxTemperature: p.maxTemp,
		},
		Simulator: configuration.SimulatorConfig{Enabled: p.simulate, Seed: p.seed},
	}
	if err := config.Scoring.Validate(); err != nil {
		return err
	}

	service, err := newService(config, nil, history.NewRepository(1, time.Minute), audit.Nop{})
	if err != nil {
		return err
	}

	var ranking rank.Ranking
	switch p.scheme {
	case "importance":
		ranking, err = service.RankImportance(ctx, "", selector.ImportanceRequest{})
	case "normalized":
		ranking, err = service.RankNormalized(ctx, "", selector.NormalizedRequest{Start: p.start})
	case "facts":
		maxTemp := config.Scoring.MaxTemperature
		ranking, err = service.RankFacts(ctx, "", selector.FactsRequest{
			Preferences: &selector.Preferences{MaxTemperature: &maxTemp},
		})
	default:
		return fmt.Errorf("invalid scheme %q: must be 'importance', 'normalized', or 'facts'", p.scheme)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(p.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ranking)
}

func newRankCmd() *cobra.Command {
	p := rankParams{stdout: os.Stdout}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the catalog rooms once and print the result",
		Long: `Rank scores every catalog room with the chosen scheme and prints
the ranking, best room first, as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.simulate = p.simulate || cmd.Flags().Changed("seed")
			return runRank(cmd.Context(), p)
		},
	}
	cmd.Flags().StringVar(&p.scheme, "scheme", "importance", "scoring scheme: importance, normalized or facts")
	cmd.Flags().StringVar(&p.start, "start", "", "meeting start time HH:MM (normalized scheme, default now)")
	cmd.Flags().Float64Var(&p.maxTemp, "max-temp", 23, "maximum comfortable temperature (facts scheme)")
	cmd.Flags().BoolVar(&p.simulate, "simulate", false, "use simulated sensors and facts")
	cmd.Flags().Uint64Var(&p.seed, "seed", 0, "simulator seed (implies --simulate)")
	cmd.Flags().StringVar(&p.catalog, "catalog", "", "room catalog YAML file (built-in rooms if empty)")
	cmd.Flags().StringVar(&p.rules, "rules", "", "fact rules YAML file (built-in rules if empty)")
	cmd.Flags().StringVar(&p.logLevel, "log-level", "warn", "log level")
	return cmd
}
