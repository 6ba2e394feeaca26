// Command matcher wires configuration, a holdings source, the strategy
// catalog, and the matcher loop together, writing one output.Report per
// underlying and optionally serving them from a read-only dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/catalog"
	"github.com/eddiefleurent/stratmatch/internal/config"
	"github.com/eddiefleurent/stratmatch/internal/dashboard"
	"github.com/eddiefleurent/stratmatch/internal/holdings"
	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/eddiefleurent/stratmatch/internal/output"
	"github.com/eddiefleurent/stratmatch/internal/retryfetch"
	"github.com/eddiefleurent/stratmatch/internal/strategy"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	var configPath string
	var outputDir string
	flag.StringVar(&configPath, "config", "config.yaml", "path to configuration file")
	flag.StringVar(&outputDir, "output-dir", ".", "directory to write per-underlying match reports into")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	level, err := logrus.ParseLevel(cfg.Environment.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	definitions, err := loadDefinitions(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to load strategy catalog")
	}
	log.WithField("count", len(definitions)).Info("loaded strategy definitions")

	source := buildSource(cfg, log)

	var dash *dashboard.Server
	if cfg.Dashboard.Enabled {
		dash = dashboard.NewServer(dashboard.Config{Addr: cfg.Dashboard.Addr}, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	if dash != nil {
		go func() {
			if err := dash.Start(); err != nil {
				log.WithError(err).Error("dashboard server stopped")
			}
		}()
	}

	if err := runAll(ctx, cfg, definitions, source, outputDir, dash, log); err != nil {
		log.WithError(err).Fatal("matcher run failed")
	}

	if dash != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := dash.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("dashboard shutdown failed")
		}
	}
}

// runAll fetches holdings and runs the matcher for every configured
// underlying concurrently, one errgroup goroutine per underlying. The first
// failure cancels the shared context and is the error returned.
func runAll(
	ctx context.Context,
	cfg *config.Config,
	definitions []strategy.StrategyDefinition,
	source holdings.Source,
	outputDir string,
	dash *dashboard.Server,
	log *logrus.Logger,
) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, underlying := range cfg.Underlyings {
		underlying := underlying
		g.Go(func() error {
			report, err := runOne(gctx, cfg, definitions, source, underlying, log)
			if err != nil {
				return fmt.Errorf("underlying %s: %w", underlying, err)
			}
			if dash != nil {
				dash.SetReport(report)
			}
			path := fmt.Sprintf("%s/%s.json", outputDir, underlying)
			if err := output.Write(path, report); err != nil {
				return fmt.Errorf("underlying %s: writing report: %w", underlying, err)
			}
			log.WithFields(logrus.Fields{
				"underlying": underlying,
				"strategies": len(report.Strategies),
				"path":       path,
			}).Info("wrote match report")
			return nil
		})
	}
	return g.Wait()
}

func runOne(
	ctx context.Context,
	cfg *config.Config,
	definitions []strategy.StrategyDefinition,
	source holdings.Source,
	underlying string,
	log *logrus.Logger,
) (output.Report, error) {
	rawHoldings, err := source.Holdings(ctx, underlying)
	if err != nil {
		return output.Report{}, fmt.Errorf("fetching holdings: %w", err)
	}

	collection, err := models.Create(underlying, rawHoldings)
	if err != nil {
		return output.Report{}, fmt.Errorf("indexing holdings: %w", err)
	}

	enumerator := enumeratorFor(cfg.Matcher.Enumerator)
	m := strategy.NewMatcher(definitions, strategy.MatcherOptions{
		MaxDuration:      cfg.Matcher.MaxDuration,
		MaxTotalMatches:  cfg.Matcher.MaxTotalMatches,
		MaxMatchesPerLeg: cfg.Matcher.MaxMatchesPerLeg,
		Enumerator:       enumerator,
	})
	m.Log = log

	result, err := m.Run(collection)
	if err != nil {
		return output.Report{}, fmt.Errorf("running matcher: %w", err)
	}

	return output.Report{
		RunID:       uuid.NewString(),
		Underlying:  underlying,
		GeneratedAt: time.Now(),
		Strategies:  result.Strategies,
		HitBudget:   result.HitBudget,
	}, nil
}

func loadDefinitions(cfg *config.Config) ([]strategy.StrategyDefinition, error) {
	if cfg.Catalog.Path == "" {
		return strategy.Library()
	}
	if cfg.Catalog.IncludeBuilt {
		return catalog.LoadWithBuiltIn(cfg.Catalog.Path)
	}
	return catalog.Load(cfg.Catalog.Path)
}

func buildSource(cfg *config.Config, log *logrus.Logger) holdings.Source {
	var base holdings.Source
	switch cfg.Holdings.Source {
	case "file":
		base = holdings.NewFileSource(cfg.Holdings.Path)
	default:
		base = holdings.NewMockSource(100)
	}

	retried := retryfetch.NewClient(base, log, retryfetch.Config{
		MaxAttempts:    cfg.Holdings.Retry.MaxAttempts,
		InitialBackoff: cfg.Holdings.Retry.InitialBackoff,
		MaxBackoff:     cfg.Holdings.Retry.MaxBackoff,
		BackoffFactor:  cfg.Holdings.Retry.BackoffFactor,
		Timeout:        retryfetch.DefaultConfig.Timeout,
	})

	return holdings.NewCircuitBreakerSource(retried, log)
}

func enumeratorFor(name string) strategy.Enumerator {
	if name == "absolute_risk" {
		return strategy.AbsoluteRiskEnumerator{}
	}
	return strategy.DefaultEnumerator{}
}
