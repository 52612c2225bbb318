package qlearn

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/lox/blackjackforbots/internal/fileutil"
)

// DefaultGamma leaves rewards undiscounted; the discount machinery exists
// for generality.
const DefaultGamma = 1.0

// Learner converts delayed round outcomes into per-situation action-value
// estimates, one table per decision category. A learner is single-writer: it
// must be owned by exactly one table/worker. Parallel workers each keep a
// private replica and Merge it into an aggregate afterwards.
type Learner struct {
	gamma   float64
	tables  [numCategories]*DecisionTable
	pending [numCategories][]Outcome
}

// NewLearner creates a learner. The rng seeds the pseudo-random initial best
// actions; gamma scales rewards per discount step.
func NewLearner(rng *rand.Rand, gamma float64) *Learner {
	l := &Learner{gamma: gamma}
	for i := range l.tables {
		l.tables[i] = newDecisionTable(rng)
	}
	return l
}

// Best returns the current best action for a situation in the given
// category, initializing it pseudo-randomly if never seen.
func (l *Learner) Best(cat Category, key string) bool {
	return l.tables[cat].Best(key)
}

// Lookup returns the learned best action for a situation, and whether both
// branches of that situation have been observed.
func (l *Learner) Lookup(cat Category, key string) (best bool, observed bool) {
	return l.tables[cat].Lookup(key)
}

// Record queues a settled decision for folding. finalHandSize is the hand's
// card count when the round resolved; the difference to the decision-time
// size sets the discount horizon.
func (l *Learner) Record(cat Category, d Decision, reward float64, finalHandSize int) {
	l.pending[cat] = append(l.pending[cat], Outcome{
		Decision:      d,
		Reward:        reward,
		DiscountSteps: finalHandSize - d.HandSize,
	})
}

// FoldRound folds every pending outcome into its table and discards the
// processed records.
func (l *Learner) FoldRound() {
	for cat := range l.pending {
		for _, o := range l.pending[cat] {
			l.tables[cat].fold(o, l.gamma)
		}
		l.pending[cat] = l.pending[cat][:0]
	}
}

// Merge folds another learner's accumulated totals into this one. The other
// learner must be quiescent (its owning worker finished).
func (l *Learner) Merge(other *Learner) {
	for cat := range l.tables {
		l.tables[cat].merge(other.tables[cat])
	}
}

// TableSize returns the number of distinct situations observed in a category.
func (l *Learner) TableSize(cat Category) int {
	return l.tables[cat].Size()
}

// snapshotEntry is the serialized form of one situation key.
type snapshotEntry struct {
	branchTotals
	Best bool `json:"best"`
}

// Snapshot returns a serializable view of all tables, keyed by category name.
func (l *Learner) Snapshot() map[string]map[string]snapshotEntry {
	out := make(map[string]map[string]snapshotEntry, numCategories)
	for cat := Category(0); cat < numCategories; cat++ {
		table := l.tables[cat]
		entries := make(map[string]snapshotEntry, len(table.totals))
		for key, b := range table.totals {
			entries[key] = snapshotEntry{branchTotals: *b, Best: table.Best(key)}
		}
		out[cat.String()] = entries
	}
	return out
}

// WriteCheckpoint writes the learned tables to path as JSON. The write is
// atomic so a reader never sees a partial checkpoint.
func (l *Learner) WriteCheckpoint(path string) error {
	data, err := json.MarshalIndent(l.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}
