package scoring

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	MapSet "github.com/deckarep/golang-set/v2"
	"github.com/gagliardetto/solana-go"

	"winnertool/types"
	"winnertool/utils"
)

// Leaderboard categories
const (
	CategoryRewards      = "rewards-earned"
	CategoryAvailability = "availability"
	CategoryLatency      = "confirmation-latency"
)

// Winner is one ranked entry of a category report.
type Winner struct {
	Identity solana.PublicKey
	Score    float64
}

// Report is the ordered ranking of one category, highest-ranked first.
// Built fresh per category, never mutated after construction.
type Report struct {
	Category string
	Winners  []Winner
}

// Equal reports structural equality of two reports.
func (r *Report) Equal(o *Report) bool {
	if r.Category != o.Category || len(r.Winners) != len(o.Winners) {
		return false
	}
	for i := range r.Winners {
		if r.Winners[i] != o.Winners[i] {
			return false
		}
	}
	return true
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s (%d ranked) ===\n", r.Category, len(r.Winners))
	for i, w := range r.Winners {
		fmt.Fprintf(&b, "%4d. %s  %v\n", i+1, w.Identity, utils.FloatRound(w.Score, 6))
	}
	return b.String()
}

// Rows converts the report into its storage form, rank starting at 1.
func (r *Report) Rows(runAt time.Time) types.WinnerRows {
	rows := make(types.WinnerRows, 0, len(r.Winners))
	for i, w := range r.Winners {
		rows = append(rows, &types.WinnerRow{
			Category: r.Category,
			Rank:     uint32(i + 1),
			Identity: w.Identity.String(),
			Score:    w.Score,
			RunAt:    runAt,
		})
	}
	return rows
}

// ExcludedSet holds the control identities (baseline validator and bootstrap
// leader) that never appear in any category's ranking. Immutable after
// construction.
type ExcludedSet struct {
	set MapSet.Set[solana.PublicKey]
}

func NewExcludedSet(ids ...solana.PublicKey) *ExcludedSet {
	set := MapSet.NewThreadUnsafeSet[solana.PublicKey]()
	for _, id := range ids {
		set.Add(id)
	}
	return &ExcludedSet{set: set}
}

func (e *ExcludedSet) Contains(id solana.PublicKey) bool {
	return e.set.Contains(id)
}

// sortWinners orders by score (descending unless ascending is set).
// Ties always break on identity byte value ascending, never insertion order.
func sortWinners(ws []Winner, ascending bool) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Score != ws[j].Score {
			if ascending {
				return ws[i].Score < ws[j].Score
			}
			return ws[i].Score > ws[j].Score
		}
		return bytes.Compare(ws[i].Identity[:], ws[j].Identity[:]) < 0
	})
}
