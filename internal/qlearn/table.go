package qlearn

import (
	"math"
	"math/rand"
)

// branchTotals accumulates per-branch observation counts and summed
// discounted rewards for one situation key.
type branchTotals struct {
	TrueCount   int     `json:"true_count"`
	TrueReward  float64 `json:"true_reward"`
	FalseCount  int     `json:"false_count"`
	FalseReward float64 `json:"false_reward"`
}

// preferTrue compares branch averages. Only meaningful once both branches
// have at least one observation.
func (b *branchTotals) preferTrue() bool {
	return b.TrueReward/float64(b.TrueCount) > b.FalseReward/float64(b.FalseCount)
}

func (b *branchTotals) observed() bool {
	return b.TrueCount > 0 && b.FalseCount > 0
}

// DecisionTable maps situation keys to running action-value aggregates and a
// cached best action per key. Missing best actions are initialized
// pseudo-randomly on first access and kept stable until the branch averages
// disagree with the cached value.
type DecisionTable struct {
	rng    *rand.Rand
	totals map[string]*branchTotals
	best   map[string]bool
}

func newDecisionTable(rng *rand.Rand) *DecisionTable {
	return &DecisionTable{
		rng:    rng,
		totals: make(map[string]*branchTotals),
		best:   make(map[string]bool),
	}
}

// Best returns the current best action for key, inserting a pseudo-random
// initial value on first miss so repeated queries stay consistent.
func (t *DecisionTable) Best(key string) bool {
	if v, ok := t.best[key]; ok {
		return v
	}
	v := t.rng.Intn(2) == 0
	t.best[key] = v
	return v
}

// Lookup returns the best action for key without inserting, along with
// whether both branches of the key have been observed.
func (t *DecisionTable) Lookup(key string) (best bool, observed bool) {
	b, ok := t.totals[key]
	if !ok || !b.observed() {
		return false, false
	}
	return t.Best(key), true
}

// fold adds one outcome to the chosen branch and flips the cached best
// action if both branches now disagree with it.
func (t *DecisionTable) fold(o Outcome, gamma float64) {
	b := t.totals[o.Key]
	if b == nil {
		b = &branchTotals{}
		t.totals[o.Key] = b
	}

	reward := o.Reward * math.Pow(gamma, float64(o.DiscountSteps))
	if o.Choice {
		b.TrueCount++
		b.TrueReward += reward
	} else {
		b.FalseCount++
		b.FalseReward += reward
	}

	if b.observed() {
		if v := b.preferTrue(); v != t.Best(o.Key) {
			t.best[o.Key] = v
		}
	}
}

// merge folds another table's totals into this one and recomputes best
// actions for every key whose branches are both observed.
func (t *DecisionTable) merge(other *DecisionTable) {
	for key, ob := range other.totals {
		b := t.totals[key]
		if b == nil {
			b = &branchTotals{}
			t.totals[key] = b
		}
		b.TrueCount += ob.TrueCount
		b.TrueReward += ob.TrueReward
		b.FalseCount += ob.FalseCount
		b.FalseReward += ob.FalseReward
	}
	for key, b := range t.totals {
		if b.observed() {
			t.best[key] = b.preferTrue()
		}
	}
}

// Size returns the number of situation keys with at least one observation.
func (t *DecisionTable) Size() int {
	return len(t.totals)
}
