package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// symbolSet is a persistent set of option symbol keys, used as the member
// list of one bucket in byStrike/byExpiration and as the whole of byRight.
type symbolSet = *idxNode[string, string]

func symbolSetInsert(s symbolSet, key string) symbolSet {
	return idxInsert(s, key, key, strings.Compare)
}

func symbolSetDelete(s symbolSet, key string) symbolSet {
	return idxDelete(s, key, strings.Compare)
}

func symbolSetMembers(s symbolSet) []string {
	var out []string
	idxInOrder(s, &out)
	return out
}

// bucketTree groups symbol keys by a shared attribute value K (a strike or
// an expiration): one outer node per distinct value, its value the
// symbolSet of members sharing it. Insert/delete touch only the path to
// the affected bucket and, within it, the path to the affected member —
// O(log n) total, never a rebuild of the other buckets.
type bucketTree[K any] = *idxNode[K, symbolSet]

func bucketInsert[K any](root bucketTree[K], key K, symKey string, cmp func(K, K) int) bucketTree[K] {
	set, _ := idxGet(root, key, cmp)
	return idxInsert(root, key, symbolSetInsert(set, symKey), cmp)
}

func bucketDelete[K any](root bucketTree[K], key K, symKey string, cmp func(K, K) int) bucketTree[K] {
	set, ok := idxGet(root, key, cmp)
	if !ok {
		return root
	}
	set = symbolSetDelete(set, symKey)
	if set == nil {
		return idxDelete(root, key, cmp)
	}
	return idxInsert(root, key, set, cmp)
}

func decimalCompare(a, b decimal.Decimal) int { return a.Cmp(b) }

func timeCompare(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// OptionPositionCollection is a persistent, indexed multiset of positions on
// one underlying. Every "modifying" operation returns a new collection; the
// receiver is never mutated. Three inverted indexes (byRight, byStrike,
// byExpiration) cover option contracts only — the underlying position lives
// in positions but is not indexed. All four structures are persistent
// search trees (indextree.go), so Add/Remove share every node unaffected by
// the single symbol they touch instead of copying the whole collection
// (spec.md §5).
type OptionPositionCollection struct {
	underlying   string
	positions    *idxNode[string, OptionPosition]
	byRight      map[Right]symbolSet
	byStrike     bucketTree[decimal.Decimal]
	byExpiration bucketTree[time.Time]
}

// New returns an empty collection scoped to underlying. spec.md §9 leaves
// the underlying of a truly empty collection as an open question; this
// implementation resolves it by requiring the underlying up front — there
// is no zero-value, underlying-less collection usable for matching.
func New(underlying string) OptionPositionCollection {
	return OptionPositionCollection{underlying: underlying}
}

// Create builds a collection from a caller-supplied holdings slice,
// including any holding whose symbol equals the underlying equity, or whose
// option Underlying field matches it. Other holdings are skipped silently
// (spec.md §4.2).
func Create(underlying string, holdings []OptionPosition) (OptionPositionCollection, error) {
	c := New(underlying)
	relevant := make([]OptionPosition, 0, len(holdings))
	for _, h := range holdings {
		if h.Symbol.Underlying != underlying {
			continue
		}
		relevant = append(relevant, h)
	}
	return c.AddRange(relevant)
}

// Underlying returns the equity symbol this collection is scoped to.
func (c OptionPositionCollection) Underlying() string { return c.underlying }

// IsEmpty reports whether the collection holds no positions at all.
func (c OptionPositionCollection) IsEmpty() bool { return idxSize(c.positions) == 0 }

// Count is the number of distinct symbols held (options and underlying).
func (c OptionPositionCollection) Count() int { return idxSize(c.positions) }

func (c OptionPositionCollection) equityKey() string { return NewEquitySymbol(c.underlying).key() }

// OptionOnlyCount is the number of distinct option symbols held, excluding
// the underlying equity.
func (c OptionPositionCollection) OptionOnlyCount() int {
	n := idxSize(c.positions)
	if _, ok := idxGet(c.positions, c.equityKey(), strings.Compare); ok {
		n--
	}
	return n
}

// UniquePuts is the number of distinct put symbols held.
func (c OptionPositionCollection) UniquePuts() int { return idxSize(c.byRight[Put]) }

// UniqueCalls is the number of distinct call symbols held.
func (c OptionPositionCollection) UniqueCalls() int { return idxSize(c.byRight[Call]) }

// UniqueExpirations is the number of distinct expiration dates held.
func (c OptionPositionCollection) UniqueExpirations() int { return idxSize(c.byExpiration) }

// UnderlyingQuantity returns the held quantity of the underlying equity, or
// 0 if none is held.
func (c OptionPositionCollection) UnderlyingQuantity() int {
	if p, ok := idxGet(c.positions, c.equityKey(), strings.Compare); ok {
		return p.Quantity
	}
	return 0
}

// HasPosition reports whether the collection holds a (nonzero) position on
// the given symbol.
func (c OptionPositionCollection) HasPosition(s Symbol) bool {
	_, ok := idxGet(c.positions, s.key(), strings.Compare)
	return ok
}

// TryGet returns the position on the given symbol, if held.
func (c OptionPositionCollection) TryGet(s Symbol) (OptionPosition, bool) {
	return idxGet(c.positions, s.key(), strings.Compare)
}

// All returns every held position (including the underlying, if held) in a
// deterministic order: the underlying first, then options ordered by
// (Right, Strike, Expiration). This is the "Default" CollectionEnumerator
// order (spec.md §4.6).
func (c OptionPositionCollection) All() []OptionPosition {
	out := make([]OptionPosition, 0, idxSize(c.positions))
	if p, ok := idxGet(c.positions, c.equityKey(), strings.Compare); ok {
		out = append(out, p)
	}
	out = append(out, c.optionsSorted()...)
	return out
}

// optionsSorted returns every held option position (no underlying) ordered
// by (Right, Strike, Expiration). Producing a total order over everything
// held is an inherently O(n log n) read, unlike Add/Remove/slice, which
// never need to touch more than the symbols they affect.
func (c OptionPositionCollection) optionsSorted() []OptionPosition {
	var all []OptionPosition
	idxInOrder(c.positions, &all)

	options := make([]OptionPosition, 0, len(all))
	for _, p := range all {
		if p.Symbol.SecurityType == SecurityOption {
			options = append(options, p)
		}
	}
	sort.Slice(options, func(i, j int) bool {
		a, b := options[i].Symbol, options[j].Symbol
		if a.Right != b.Right {
			return a.Right < b.Right
		}
		if cmp := a.Strike.Cmp(b.Strike); cmp != 0 {
			return cmp < 0
		}
		return a.Expiration.Before(b.Expiration)
	})
	return options
}

// Add merges p into the collection. A symbol already present has its
// quantity added; if the merged quantity is zero, the symbol and its index
// memberships are removed. Adding the underlying only ever updates the
// equity entry of positions (it carries no index membership). Every step
// touches only the path to the affected symbol's node in each of the four
// trees — O(log n) amortized, not a copy of the whole collection.
func (c OptionPositionCollection) Add(p OptionPosition) (OptionPositionCollection, error) {
	key := p.Symbol.key()

	merged := p
	if existing, ok := idxGet(c.positions, key, strings.Compare); ok {
		var err error
		merged, err = existing.Add(p)
		if err != nil {
			return OptionPositionCollection{}, err
		}
	}

	if merged.Quantity == 0 {
		return c.removeSymbol(p.Symbol, key), nil
	}
	return c.upsertSymbol(merged, key), nil
}

func (c OptionPositionCollection) upsertSymbol(p OptionPosition, key string) OptionPositionCollection {
	positions := idxInsert(c.positions, key, p, strings.Compare)
	if p.Symbol.SecurityType != SecurityOption {
		return OptionPositionCollection{underlying: c.underlying, positions: positions, byRight: c.byRight, byStrike: c.byStrike, byExpiration: c.byExpiration}
	}

	byRight := make(map[Right]symbolSet, 2)
	byRight[Put] = c.byRight[Put]
	byRight[Call] = c.byRight[Call]
	byRight[p.Symbol.Right] = symbolSetInsert(c.byRight[p.Symbol.Right], key)

	return OptionPositionCollection{
		underlying:   c.underlying,
		positions:    positions,
		byRight:      byRight,
		byStrike:     bucketInsert(c.byStrike, p.Symbol.Strike, key, decimalCompare),
		byExpiration: bucketInsert(c.byExpiration, p.Symbol.Expiration, key, timeCompare),
	}
}

func (c OptionPositionCollection) removeSymbol(sym Symbol, key string) OptionPositionCollection {
	positions := idxDelete(c.positions, key, strings.Compare)
	if sym.SecurityType != SecurityOption {
		return OptionPositionCollection{underlying: c.underlying, positions: positions, byRight: c.byRight, byStrike: c.byStrike, byExpiration: c.byExpiration}
	}

	byRight := make(map[Right]symbolSet, 2)
	byRight[Put] = c.byRight[Put]
	byRight[Call] = c.byRight[Call]
	byRight[sym.Right] = symbolSetDelete(c.byRight[sym.Right], key)

	return OptionPositionCollection{
		underlying:   c.underlying,
		positions:    positions,
		byRight:      byRight,
		byStrike:     bucketDelete(c.byStrike, sym.Strike, key, decimalCompare),
		byExpiration: bucketDelete(c.byExpiration, sym.Expiration, key, timeCompare),
	}
}

// AddRange adds every position in ps, one symbol at a time (spec.md §4.2:
// performance-only variant of repeated Add — each step is still O(log n),
// so this is O(k log n) for k positions, never a bulk O(n) rebuild).
func (c OptionPositionCollection) AddRange(ps []OptionPosition) (OptionPositionCollection, error) {
	cur := c
	for _, p := range ps {
		var err error
		cur, err = cur.Add(p)
		if err != nil {
			return OptionPositionCollection{}, err
		}
	}
	return cur, nil
}

// Remove subtracts p.Quantity from the existing position on p.Symbol. If the
// result is zero, the symbol is removed entirely. The result may carry the
// opposite sign from the original position — that is permitted.
func (c OptionPositionCollection) Remove(p OptionPosition) (OptionPositionCollection, error) {
	return c.Add(p.Negate())
}

// Accept removes every leg position of match, each scaled by match's overall
// multiplier, returning the collection left over after the strategy is
// taken out of it.
func (c OptionPositionCollection) Accept(match StrategyDefinitionMatch) (OptionPositionCollection, error) {
	cur := c
	overall := match.Multiplier()
	for _, leg := range match.Legs {
		p := leg.Position
		if leg.Multiplier != 0 {
			p = p.WithQuantity(p.Quantity / leg.Multiplier * overall)
		}
		var err error
		cur, err = cur.Remove(p)
		if err != nil {
			return OptionPositionCollection{}, err
		}
	}
	return cur, nil
}

// SliceByRight retains only option positions with the given right, plus the
// underlying if includeUnderlying and held. The right's full member set is
// already materialized in byRight, so this is an O(log n) lookup followed
// by an O(k) walk over just the k matching symbols.
func (c OptionPositionCollection) SliceByRight(right Right, includeUnderlying bool) OptionPositionCollection {
	return c.rebuildFrom(symbolSetMembers(c.byRight[right]), includeUnderlying)
}

// SliceByStrike retains only option positions whose strike satisfies
// cmp(strike, ref), plus the underlying if includeUnderlying and held.
// idxCollectRange prunes byStrike down to the O(log n + k) buckets the
// comparison actually touches instead of scanning every bucket.
func (c OptionPositionCollection) SliceByStrike(cmp Comparison, ref decimal.Decimal, includeUnderlying bool) OptionPositionCollection {
	var sets []symbolSet
	idxCollectRange(c.byStrike, cmp, ref, decimalCompare, &sets)
	return c.rebuildFrom(flattenSets(sets), includeUnderlying)
}

// SliceByExpiration retains only option positions whose expiration satisfies
// cmp(expiration, ref), plus the underlying if includeUnderlying and held.
func (c OptionPositionCollection) SliceByExpiration(cmp Comparison, ref time.Time, includeUnderlying bool) OptionPositionCollection {
	var sets []symbolSet
	idxCollectRange(c.byExpiration, cmp, ref, timeCompare, &sets)
	return c.rebuildFrom(flattenSets(sets), includeUnderlying)
}

func flattenSets(sets []symbolSet) []string {
	var keys []string
	for _, s := range sets {
		keys = append(keys, symbolSetMembers(s)...)
	}
	return keys
}

// rebuildFrom returns a new collection containing exactly the option
// symbols named by keys, plus the underlying if requested and held. Cost is
// O(k log k) for k = len(keys) — the size of the slice's own output, never
// the size of the collection it was sliced from.
func (c OptionPositionCollection) rebuildFrom(keys []string, includeUnderlying bool) OptionPositionCollection {
	ps := make([]OptionPosition, 0, len(keys)+1)
	for _, k := range keys {
		if p, ok := idxGet(c.positions, k, strings.Compare); ok {
			ps = append(ps, p)
		}
	}
	if includeUnderlying {
		if p, ok := idxGet(c.positions, c.equityKey(), strings.Compare); ok {
			ps = append(ps, p)
		}
	}
	// keys are drawn from c's own positions tree, so they're already
	// distinct symbols; AddRange can't hit the mismatched-symbol error here.
	rebuilt, _ := New(c.underlying).AddRange(ps)
	return rebuilt
}
