package qlearn

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackforbots/internal/deck"
)

func TestKeyFormat(t *testing.T) {
	cases := []struct {
		cards    []deck.Card
		upcard   deck.Card
		expected string
	}{
		{
			cards: []deck.Card{
				deck.NewCard(deck.Ace, deck.Spades),
				deck.NewCard(deck.Ten, deck.Hearts),
			},
			upcard:   deck.NewCard(deck.Six, deck.Clubs),
			expected: "A_T_6",
		},
		{
			cards: []deck.Card{
				deck.NewCard(deck.King, deck.Spades),
				deck.NewCard(deck.Queen, deck.Hearts),
			},
			upcard:   deck.NewCard(deck.Ace, deck.Clubs),
			expected: "K_Q_A",
		},
		{
			cards: []deck.Card{
				deck.NewCard(deck.Five, deck.Clubs),
				deck.NewCard(deck.Three, deck.Diamonds),
				deck.NewCard(deck.Jack, deck.Spades),
			},
			upcard:   deck.NewCard(deck.Nine, deck.Hearts),
			expected: "5_3_J_9",
		},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, Key(tc.cards, tc.upcard))
	}
}

func TestKeyIgnoresSuits(t *testing.T) {
	a := Key([]deck.Card{
		deck.NewCard(deck.Eight, deck.Clubs),
		deck.NewCard(deck.Eight, deck.Diamonds),
	}, deck.NewCard(deck.Ten, deck.Hearts))
	b := Key([]deck.Card{
		deck.NewCard(deck.Eight, deck.Spades),
		deck.NewCard(deck.Eight, deck.Hearts),
	}, deck.NewCard(deck.Ten, deck.Clubs))

	assert.Equal(t, a, b)
}

func TestBestIsStableForUnseenKeys(t *testing.T) {
	l := NewLearner(rand.New(rand.NewSource(1)), DefaultGamma)

	first := l.Best(HitStand, "T_6_4")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, l.Best(HitStand, "T_6_4"))
	}
}

func TestLookupRequiresBothBranches(t *testing.T) {
	l := NewLearner(rand.New(rand.NewSource(2)), DefaultGamma)

	_, observed := l.Lookup(HitStand, "T_6_4")
	assert.False(t, observed)

	// Only the true branch observed: still unresolved.
	l.Record(HitStand, Decision{Key: "T_6_4", Choice: true, HandSize: 2}, -100, 3)
	l.FoldRound()
	_, observed = l.Lookup(HitStand, "T_6_4")
	assert.False(t, observed)

	l.Record(HitStand, Decision{Key: "T_6_4", Choice: false, HandSize: 2}, 100, 2)
	l.FoldRound()
	best, observed := l.Lookup(HitStand, "T_6_4")
	assert.True(t, observed)
	assert.False(t, best, "standing paid more, hitting should not be preferred")
}

func TestBestFlipsWhenAveragesDisagree(t *testing.T) {
	l := NewLearner(rand.New(rand.NewSource(3)), DefaultGamma)

	// Hitting 20 loses, standing wins, regardless of what the initial
	// pseudo-random best action happened to be.
	for i := 0; i < 10; i++ {
		l.Record(HitStand, Decision{Key: "T_T_6", Choice: true, HandSize: 2}, -100, 3)
		l.Record(HitStand, Decision{Key: "T_T_6", Choice: false, HandSize: 2}, 100, 2)
	}
	l.FoldRound()

	assert.False(t, l.Best(HitStand, "T_T_6"))

	// Drag the hitting average above the standing average and the cached
	// best flips back.
	for i := 0; i < 100; i++ {
		l.Record(HitStand, Decision{Key: "T_T_6", Choice: true, HandSize: 2}, 200, 3)
	}
	l.FoldRound()
	assert.True(t, l.Best(HitStand, "T_T_6"))
}

func TestRewardDiscounting(t *testing.T) {
	l := NewLearner(rand.New(rand.NewSource(4)), 0.5)

	// Decision made at 2 cards, hand finished with 4: two discount steps,
	// so the reward folds in at 100 * 0.5^2 = 25.
	l.Record(HitStand, Decision{Key: "5_6_T", Choice: true, HandSize: 2}, 100, 4)
	l.Record(HitStand, Decision{Key: "5_6_T", Choice: false, HandSize: 2}, 100, 2)
	l.FoldRound()

	b := l.tables[HitStand].totals["5_6_T"]
	require.NotNil(t, b)
	assert.InDelta(t, 25.0, b.TrueReward, 1e-9)
	assert.InDelta(t, 100.0, b.FalseReward, 1e-9)
}

func TestFoldRoundClearsPending(t *testing.T) {
	l := NewLearner(rand.New(rand.NewSource(5)), DefaultGamma)

	l.Record(Split, Decision{Key: "8_8_6", Choice: true, HandSize: 2}, 100, 3)
	l.FoldRound()
	assert.Equal(t, 1, l.TableSize(Split))

	// A second fold with nothing pending must not double-count.
	l.FoldRound()
	b := l.tables[Split].totals["8_8_6"]
	assert.Equal(t, 1, b.TrueCount)
}

func TestMergeRecomputesBest(t *testing.T) {
	a := NewLearner(rand.New(rand.NewSource(6)), DefaultGamma)
	b := NewLearner(rand.New(rand.NewSource(7)), DefaultGamma)

	// Worker A saw only wins from hitting, worker B only bigger wins from
	// standing. Neither alone has the situation resolved in favor of
	// standing; the merged totals must.
	a.Record(HitStand, Decision{Key: "9_7_T", Choice: true, HandSize: 2}, 100, 3)
	a.FoldRound()
	b.Record(HitStand, Decision{Key: "9_7_T", Choice: false, HandSize: 2}, 300, 2)
	b.FoldRound()

	merged := NewLearner(rand.New(rand.NewSource(8)), DefaultGamma)
	merged.Merge(a)
	merged.Merge(b)

	best, observed := merged.Lookup(HitStand, "9_7_T")
	assert.True(t, observed)
	assert.False(t, best)
	assert.Equal(t, 1, merged.TableSize(HitStand))
}

func TestMergeSumsCounts(t *testing.T) {
	a := NewLearner(rand.New(rand.NewSource(9)), DefaultGamma)
	b := NewLearner(rand.New(rand.NewSource(10)), DefaultGamma)

	for i := 0; i < 3; i++ {
		a.Record(Double, Decision{Key: "5_6_6", Choice: true, HandSize: 2}, 200, 3)
	}
	a.FoldRound()
	for i := 0; i < 2; i++ {
		b.Record(Double, Decision{Key: "5_6_6", Choice: true, HandSize: 2}, 200, 3)
	}
	b.FoldRound()

	a.Merge(b)
	totals := a.tables[Double].totals["5_6_6"]
	assert.Equal(t, 5, totals.TrueCount)
	assert.InDelta(t, 1000.0, totals.TrueReward, 1e-9)
}

func TestWriteCheckpoint(t *testing.T) {
	l := NewLearner(rand.New(rand.NewSource(11)), DefaultGamma)
	l.Record(HitStand, Decision{Key: "T_T_6", Choice: true, HandSize: 2}, -100, 3)
	l.Record(HitStand, Decision{Key: "T_T_6", Choice: false, HandSize: 2}, 100, 2)
	l.FoldRound()

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, l.WriteCheckpoint(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snapshot map[string]map[string]snapshotEntry
	require.NoError(t, json.Unmarshal(data, &snapshot))

	entry, ok := snapshot["hit_stand"]["T_T_6"]
	require.True(t, ok)
	assert.Equal(t, 1, entry.TrueCount)
	assert.Equal(t, 1, entry.FalseCount)
	assert.False(t, entry.Best)
}
