package solver

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
)

// ErrActionMismatch reports an information set reached with a different
// action row than the one already stored for it. The abstraction must map
// every state of an information set to the same actions.
var ErrActionMismatch = errors.New("information set action mismatch")

// Entry holds the three DCFR rows of one information set. All rows are
// aligned with Actions.
type Entry struct {
	Actions     []string
	Regret      []float64 // cumulative counterfactual regret, any sign
	Strategy    []float64 // last regret-matched strategy
	StrategySum []float64 // discounted reach-weighted strategy mass
}

func newEntry(actions []string) *Entry {
	n := len(actions)
	return &Entry{
		Actions:     slices.Clone(actions),
		Regret:      make([]float64, n),
		Strategy:    uniform(n),
		StrategySum: make([]float64, n),
	}
}

// CurrentStrategy applies regret matching to the entry's regrets.
func (e *Entry) CurrentStrategy() []float64 {
	return regretMatching(e.Regret)
}

// AverageStrategy normalises the strategy mass; a row that never received
// mass falls back to uniform.
func (e *Entry) AverageStrategy() []float64 {
	return normalise(e.StrategySum)
}

func (e *Entry) clone() *Entry {
	return &Entry{
		Actions:     slices.Clone(e.Actions),
		Regret:      slices.Clone(e.Regret),
		Strategy:    slices.Clone(e.Strategy),
		StrategySum: slices.Clone(e.StrategySum),
	}
}

const tableShardCount = 64
const tableShardMask = tableShardCount - 1

type tableShard struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// Table maps information-set keys to entries using sharded maps. Traversals
// only read it; rows change when an iteration's deltas are merged and when
// the iteration is discounted, which never overlaps with traversals.
type Table struct {
	shards [tableShardCount]tableShard
}

// NewTable returns an empty table ready for use.
func NewTable() *Table {
	table := &Table{}
	for i := range tableShardCount {
		table.shards[i].entries = make(map[string]*Entry)
	}
	return table
}

// Lookup returns the stored entry for key.
func (t *Table) Lookup(key string) (*Entry, bool) {
	shard := t.shardFor(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	e, ok := shard.entries[key]
	return e, ok
}

// Size returns the number of information sets tracked.
func (t *Table) Size() int {
	total := 0
	for i := range tableShardCount {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Keys returns every stored key in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.Size())
	t.each(func(k string, _ *Entry) { keys = append(keys, k) })
	sort.Strings(keys)
	return keys
}

// Snapshot returns deep copies of every entry.
func (t *Table) Snapshot() map[string]*Entry {
	out := make(map[string]*Entry, t.Size())
	t.each(func(k string, e *Entry) { out[k] = e.clone() })
	return out
}

func (t *Table) each(fn func(string, *Entry)) {
	for i := range tableShardCount {
		shard := &t.shards[i]
		shard.mu.RLock()
		for k, e := range shard.entries {
			fn(k, e)
		}
		shard.mu.RUnlock()
	}
}

func (t *Table) put(key string, e *Entry) {
	shard := t.shardFor(key)
	shard.mu.Lock()
	shard.entries[key] = e
	shard.mu.Unlock()
}

// Discount scales every row after iteration iter: positive regrets by
// iter^α/(iter^α+1), non-positive regrets by iter^β/(iter^β+1) and the
// strategy mass by (iter/(iter+1))^γ.
func (t *Table) Discount(iter int, alpha, beta, gamma float64) {
	ti := float64(iter)
	pa := math.Pow(ti, alpha)
	pb := math.Pow(ti, beta)
	pos := pa / (pa + 1)
	neg := pb / (pb + 1)
	avg := math.Pow(ti/(ti+1), gamma)

	for i := range tableShardCount {
		shard := &t.shards[i]
		shard.mu.Lock()
		for _, e := range shard.entries {
			for a, r := range e.Regret {
				if r > 0 {
					e.Regret[a] = r * pos
				} else {
					e.Regret[a] = r * neg
				}
			}
			for a := range e.StrategySum {
				e.StrategySum[a] *= avg
			}
		}
		shard.mu.Unlock()
	}
}

// AverageStrategies normalises every row of the table.
func (t *Table) AverageStrategies() map[string][]float64 {
	out := make(map[string][]float64, t.Size())
	t.each(func(k string, e *Entry) { out[k] = e.AverageStrategy() })
	return out
}

// merge applies a set of deltas in order. Every delta is checked against the
// table and against the others first, so a mismatch leaves the table as it was.
func (t *Table) merge(deltas []*delta) error {
	seen := make(map[string][]string)
	for _, d := range deltas {
		for key, row := range d.rows {
			want, ok := seen[key]
			if !ok {
				if e, found := t.Lookup(key); found {
					want, ok = e.Actions, true
				}
			}
			if ok && !slices.Equal(want, row.actions) {
				return fmt.Errorf("%q has %v, traversal saw %v: %w", key, want, row.actions, ErrActionMismatch)
			}
			seen[key] = row.actions
		}
	}

	for _, d := range deltas {
		for key, row := range d.rows {
			e, ok := t.Lookup(key)
			if !ok {
				e = newEntry(row.actions)
				t.put(key, e)
			}
			for a := range row.regret {
				e.Regret[a] += row.regret[a]
				e.StrategySum[a] += row.strategySum[a]
			}
			copy(e.Strategy, row.strategy)
		}
	}
	return nil
}

// delta collects one traversal's updates. It is owned by a single goroutine.
type delta struct {
	rows map[string]*deltaRow
}

type deltaRow struct {
	actions     []string
	regret      []float64
	strategySum []float64
	strategy    []float64
}

func newDelta() *delta {
	return &delta{rows: make(map[string]*deltaRow)}
}

func (d *delta) row(key string, actions []string) (*deltaRow, error) {
	if r, ok := d.rows[key]; ok {
		if !slices.Equal(r.actions, actions) {
			return nil, fmt.Errorf("%q has %v, traversal saw %v: %w", key, r.actions, actions, ErrActionMismatch)
		}
		return r, nil
	}
	n := len(actions)
	r := &deltaRow{
		actions:     slices.Clone(actions),
		regret:      make([]float64, n),
		strategySum: make([]float64, n),
		strategy:    make([]float64, n),
	}
	d.rows[key] = r
	return r, nil
}

// regretMatching returns probabilities proportional to positive regret, or
// uniform when no regret is positive.
func regretMatching(regret []float64) []float64 {
	strat := make([]float64, len(regret))
	total := 0.0
	for i, r := range regret {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		return uniform(len(regret))
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

func normalise(mass []float64) []float64 {
	total := 0.0
	for _, v := range mass {
		total += v
	}
	if total <= 0 {
		return uniform(len(mass))
	}
	out := make([]float64, len(mass))
	for i, v := range mass {
		out[i] = v / total
	}
	return out
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	v := 1.0 / float64(n)
	for i := range out {
		out[i] = v
	}
	return out
}

func hashKey(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	var hash uint32 = offset32
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}

func (t *Table) shardFor(key string) *tableShard {
	return &t.shards[hashKey(key)&tableShardMask]
}
