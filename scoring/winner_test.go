package scoring

import (
	"testing"
	"time"
)

func TestSortWinnersTieBreakIsByteOrder(t *testing.T) {
	// Insert in descending identity order; equal scores must come back
	// ascending by identity bytes, never in insertion order.
	ws := []Winner{
		{Identity: pk(3), Score: 5},
		{Identity: pk(2), Score: 5},
		{Identity: pk(1), Score: 5},
	}
	sortWinners(ws, false)
	for i, want := range []byte{1, 2, 3} {
		if ws[i].Identity != pk(want) {
			t.Fatalf("tie-break broken at %d: %v", i, ws[i].Identity)
		}
	}

	sortWinners(ws, true)
	for i, want := range []byte{1, 2, 3} {
		if ws[i].Identity != pk(want) {
			t.Fatalf("ascending tie-break broken at %d: %v", i, ws[i].Identity)
		}
	}
}

func TestSortWinnersDirections(t *testing.T) {
	ws := []Winner{{Identity: pk(1), Score: 1}, {Identity: pk(2), Score: 2}}
	sortWinners(ws, false)
	if ws[0].Score != 2 {
		t.Fatalf("descending sort broken: %+v", ws)
	}
	sortWinners(ws, true)
	if ws[0].Score != 1 {
		t.Fatalf("ascending sort broken: %+v", ws)
	}
}

func TestReportEqual(t *testing.T) {
	a := &Report{Category: CategoryRewards, Winners: []Winner{{Identity: pk(1), Score: 1}}}
	b := &Report{Category: CategoryRewards, Winners: []Winner{{Identity: pk(1), Score: 1}}}
	c := &Report{Category: CategoryRewards, Winners: []Winner{{Identity: pk(1), Score: 2}}}
	if !a.Equal(b) {
		t.Fatalf("identical reports must be equal")
	}
	if a.Equal(c) {
		t.Fatalf("reports with different scores must differ")
	}
	if a.Equal(&Report{Category: CategoryLatency, Winners: a.Winners}) {
		t.Fatalf("reports of different categories must differ")
	}
}

func TestExcludedSet(t *testing.T) {
	e := NewExcludedSet(pk(1), pk(2))
	if !e.Contains(pk(1)) || !e.Contains(pk(2)) {
		t.Fatalf("excluded identities not found")
	}
	if e.Contains(pk(3)) {
		t.Fatalf("unexpected identity in excluded set")
	}
}

func TestReportRows(t *testing.T) {
	r := &Report{Category: CategoryLatency, Winners: []Winner{
		{Identity: pk(1), Score: 1.5},
		{Identity: pk(2), Score: 2.5},
	}}
	rows := r.Rows(time.Unix(1700000000, 0))
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Fatalf("ranks must start at 1: %+v", rows)
	}
	if rows[0].Category != CategoryLatency || rows[0].Identity != pk(1).String() {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}
