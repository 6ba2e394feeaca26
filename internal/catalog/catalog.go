// Package catalog loads a declarative YAML description of strategy
// definitions into strategy.StrategyDefinition values, validating every
// predicate and leg reference at load time the same way config.Load
// validates the application config.
package catalog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/eddiefleurent/stratmatch/internal/strategy"
	"github.com/shopspring/decimal"
	yaml "gopkg.in/yaml.v3"
)

// file is the on-disk catalog shape.
type file struct {
	Strategies []strategyRecord `yaml:"strategies"`
}

type strategyRecord struct {
	Name           string      `yaml:"name"`
	UnderlyingLots int         `yaml:"underlying_lots"`
	Legs           []legRecord `yaml:"legs"`
}

type legRecord struct {
	Right      string            `yaml:"right"`
	Quantity   int               `yaml:"quantity"`
	Predicates []predicateRecord `yaml:"predicates"`
}

type predicateRecord struct {
	Target string          `yaml:"target"` // right | strike | expiration
	Cmp    string          `yaml:"cmp"`    // =, <>, <, <=, >, >=
	Ref    referenceRecord `yaml:"ref"`
}

type referenceRecord struct {
	Kind       string `yaml:"kind"`       // literal | leg
	LegIndex   int    `yaml:"leg_index"`  // when kind == leg
	Right      string `yaml:"right"`      // when kind == literal, target == right
	Strike     string `yaml:"strike"`     // when kind == literal, target == strike
	Expiration string `yaml:"expiration"` // when kind == literal, target == expiration, RFC3339
}

// Load reads path and decodes it into strategy definitions. IncludeBuiltIn
// strategies are prepended ahead of the catalog's own entries when
// requested by the caller (see LoadWithBuiltIn).
func Load(path string) ([]strategy.StrategyDefinition, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied config
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %q: %w", path, err)
	}

	var f file
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("catalog: parsing %q: %w", path, err)
	}

	out := make([]strategy.StrategyDefinition, 0, len(f.Strategies))
	for _, rec := range f.Strategies {
		def, err := rec.build()
		if err != nil {
			return nil, fmt.Errorf("catalog: strategy %q: %w", rec.Name, err)
		}
		out = append(out, def)
	}
	return out, nil
}

// LoadWithBuiltIn loads path and prepends strategy.Library()'s built-in
// definitions ahead of it.
func LoadWithBuiltIn(path string) ([]strategy.StrategyDefinition, error) {
	custom, err := Load(path)
	if err != nil {
		return nil, err
	}
	builtIn, err := strategy.Library()
	if err != nil {
		return nil, fmt.Errorf("catalog: loading built-in library: %w", err)
	}
	return append(builtIn, custom...), nil
}

func (rec strategyRecord) build() (strategy.StrategyDefinition, error) {
	b := strategy.NewStrategy(rec.Name).Underlying(rec.UnderlyingLots)
	for _, leg := range rec.Legs {
		right, err := parseRight(leg.Right)
		if err != nil {
			return strategy.StrategyDefinition{}, err
		}
		predicates := make([]strategy.Predicate, 0, len(leg.Predicates))
		for _, p := range leg.Predicates {
			predicate, err := p.build()
			if err != nil {
				return strategy.StrategyDefinition{}, err
			}
			predicates = append(predicates, predicate)
		}
		b = b.Leg(right, leg.Quantity, predicates...)
	}
	return b.Build()
}

func (p predicateRecord) build() (strategy.Predicate, error) {
	cmp, err := parseComparison(p.Cmp)
	if err != nil {
		return strategy.Predicate{}, err
	}
	ref, err := p.Ref.build(p.Target)
	if err != nil {
		return strategy.Predicate{}, err
	}
	switch p.Target {
	case "right":
		return strategy.WhereRight(cmp, ref), nil
	case "strike":
		return strategy.WhereStrike(cmp, ref), nil
	case "expiration":
		return strategy.WhereExpiration(cmp, ref), nil
	default:
		return strategy.Predicate{}, fmt.Errorf("unknown predicate target %q", p.Target)
	}
}

// build resolves a reference record given the predicate target it serves —
// a leg reference always reads the same attribute of the earlier leg that
// the predicate itself compares against (strike vs strike, expiration vs
// expiration, right vs right).
func (r referenceRecord) build(target string) (strategy.Reference, error) {
	switch r.Kind {
	case "leg":
		switch target {
		case "right":
			return strategy.LegRight(r.LegIndex), nil
		case "strike":
			return strategy.LegStrike(r.LegIndex), nil
		case "expiration":
			return strategy.LegExpiration(r.LegIndex), nil
		default:
			return strategy.Reference{}, fmt.Errorf("unknown predicate target %q", target)
		}
	case "literal":
		return r.literal()
	default:
		return strategy.Reference{}, fmt.Errorf("unknown reference kind %q", r.Kind)
	}
}

func (r referenceRecord) literal() (strategy.Reference, error) {
	switch {
	case r.Right != "":
		right, err := parseRight(r.Right)
		if err != nil {
			return strategy.Reference{}, err
		}
		return strategy.LiteralRight(right), nil
	case r.Strike != "":
		strike, err := decimal.NewFromString(r.Strike)
		if err != nil {
			return strategy.Reference{}, fmt.Errorf("invalid literal strike %q: %w", r.Strike, err)
		}
		return strategy.LiteralStrike(strike), nil
	case r.Expiration != "":
		t, err := parseExpiration(r.Expiration)
		if err != nil {
			return strategy.Reference{}, err
		}
		return strategy.LiteralExpiration(t), nil
	default:
		return strategy.Reference{}, fmt.Errorf("literal reference has no value set")
	}
}

func parseExpiration(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid literal expiration %q: %w", s, err)
	}
	return t, nil
}

func parseRight(s string) (models.Right, error) {
	switch s {
	case "put", "Put":
		return models.Put, nil
	case "call", "Call":
		return models.Call, nil
	default:
		return 0, fmt.Errorf("unknown right %q", s)
	}
}

func parseComparison(s string) (models.Comparison, error) {
	switch s {
	case "=", "==":
		return models.CmpEQ, nil
	case "<>", "!=":
		return models.CmpNE, nil
	case "<":
		return models.CmpLT, nil
	case "<=":
		return models.CmpLE, nil
	case ">":
		return models.CmpGT, nil
	case ">=":
		return models.CmpGE, nil
	default:
		return 0, fmt.Errorf("unknown comparison %q", s)
	}
}
