// Command scenario runs one named scenario — a holdings file and a catalog
// file — end to end against a single underlying and prints what the
// matcher found. It is the integration-test-as-CLI pattern: no config.yaml,
// no dashboard, no retry/circuit-breaker wrapping.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eddiefleurent/stratmatch/internal/catalog"
	"github.com/eddiefleurent/stratmatch/internal/holdings"
	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/eddiefleurent/stratmatch/internal/strategy"
)

func main() {
	var (
		underlying   = flag.String("underlying", "SPY", "underlying symbol to match against")
		holdingsPath = flag.String("holdings", "scenario_holdings.json", "path to a holdings file")
		catalogPath  = flag.String("catalog", "", "path to a catalog file; empty means built-in library only")
		enumerator   = flag.String("enumerator", "default", "default | absolute_risk")
	)
	flag.Parse()

	fmt.Println("=== stratmatch scenario runner ===")
	fmt.Println()

	definitions, err := loadDefinitions(*catalogPath)
	if err != nil {
		log.Fatalf("failed to load strategy definitions: %v", err)
	}
	fmt.Printf("Loaded %d strategy definition(s)\n", len(definitions))

	source := holdings.NewFileSource(*holdingsPath)
	rawHoldings, err := source.Holdings(context.Background(), *underlying)
	if err != nil {
		log.Fatalf("failed to load holdings: %v", err)
	}
	fmt.Printf("Loaded %d position(s) on %s\n", len(rawHoldings), *underlying)

	collection, err := models.Create(*underlying, rawHoldings)
	if err != nil {
		log.Fatalf("failed to index holdings: %v", err)
	}

	enum := strategy.Enumerator(strategy.DefaultEnumerator{})
	if *enumerator == "absolute_risk" {
		enum = strategy.AbsoluteRiskEnumerator{}
	}

	m := strategy.NewMatcher(definitions, strategy.MatcherOptions{Enumerator: enum})
	result, err := m.Run(collection)
	if err != nil {
		log.Fatalf("matcher run failed: %v", err)
	}

	fmt.Println()
	fmt.Printf("Found %d strategy instance(s)%s:\n", len(result.Strategies), budgetNote(result.HitBudget))
	for i, s := range result.Strategies {
		fmt.Printf("  %d. %s x%d\n", i+1, s.DefinitionName, s.Multiplier)
		for _, leg := range s.Legs {
			fmt.Printf("       %s %s %s exp %s qty %d\n",
				leg.Symbol.Underlying, leg.Symbol.Right, leg.Symbol.Strike, leg.Symbol.Expiration.Format("2006-01-02"), leg.Quantity)
		}
	}
	fmt.Println()
	fmt.Printf("%d position(s) remain unmatched on %s\n", result.Remaining.OptionOnlyCount(), *underlying)
}

func budgetNote(hit bool) string {
	if hit {
		return " (stopped early: budget exhausted)"
	}
	return ""
}

func loadDefinitions(catalogPath string) ([]strategy.StrategyDefinition, error) {
	if catalogPath == "" {
		return strategy.Library()
	}
	return catalog.LoadWithBuiltIn(catalogPath)
}
