package replay

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"winnertool/ledger"
	"winnertool/logger"
	"winnertool/scoring"
	"winnertool/types"
)

func init() {
	logger.SetConsoleEnabled(false)
	logger.InitLogs("test")
}

func pk(b byte) solana.PublicKey {
	var p solana.PublicKey
	p[0] = b
	return p
}

const startingBalance = uint64(1000e9)

// tourFixture is a small replayable trace: baseline x, candidates a and b,
// bootstrap leader l. Slot 4 is skipped.
func tourFixture() (store *ledger.MemStore, x, a, b, l solana.PublicKey) {
	x, a, b, l = pk(1), pk(2), pk(3), pk(4)

	store = ledger.NewMemStore()
	store.Blocks[2] = []types.Entry{
		{Votes: []types.Vote{{Voter: x, SlotConfirmed: 1}}},
		{Votes: []types.Vote{{Voter: a, SlotConfirmed: 1}}},
	}
	store.Blocks[3] = []types.Entry{
		{Votes: []types.Vote{{Voter: x, SlotConfirmed: 2}}},
		{Votes: []types.Vote{{Voter: b, SlotConfirmed: 2}}},
		{Votes: []types.Vote{{Voter: a, SlotConfirmed: 2}}},
	}
	store.Blocks[5] = []types.Entry{
		{Votes: []types.Vote{
			{Voter: x, SlotConfirmed: 3},
			{Voter: a, SlotConfirmed: 3},
			{Voter: b, SlotConfirmed: 3},
		}},
	}
	store.Leaders = map[uint64]solana.PublicKey{2: l, 3: a, 4: a, 5: b}
	store.Lamports = map[solana.PublicKey]uint64{
		x: startingBalance,
		a: startingBalance + 500,
		b: startingBalance - 100,
	}
	return store, x, a, b, l
}

func TestProcessBuildsSnapshotAndSchedule(t *testing.T) {
	store, x, a, b, _ := tourFixture()

	observer := scoring.NewVoteObserver()
	snap, cache, err := Process(store, Options{
		FullLeaderCache: true,
		EntryCallback:   observer.OnEntry,
		NumWorkers:      1,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if snap.Slot != 5 {
		t.Fatalf("expected final slot 5, got %d", snap.Slot)
	}
	if len(snap.VoteAccounts) != 3 {
		t.Fatalf("expected 3 vote accounts, got %d", len(snap.VoteAccounts))
	}
	for _, id := range []solana.PublicKey{x, a, b} {
		if snap.VoteAccounts[id] != 3 {
			t.Fatalf("expected last confirmed slot 3 for %s, got %d", id, snap.VoteAccounts[id])
		}
	}
	if snap.Balances[a] != startingBalance+500 {
		t.Fatalf("unexpected balance for a: %d", snap.Balances[a])
	}
	if cache.Len() != 4 {
		t.Fatalf("expected 4 scheduled slots, got %d", cache.Len())
	}
	if leader, ok := cache.Leader(4); !ok || leader != a {
		t.Fatalf("unexpected leader of slot 4: %v %v", leader, ok)
	}

	record, segments := observer.Freeze()
	// x confirmed slots 1, 2, 3 at entries 0, 2, 5
	want := []types.VoteRecordEntry{{SlotConfirmed: 1, EntryIndex: 0}, {SlotConfirmed: 2, EntryIndex: 2}, {SlotConfirmed: 3, EntryIndex: 5}}
	if got := record[x]; len(got) != len(want) {
		t.Fatalf("unexpected record for x: %+v", got)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("record[x][%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	}
	if len(segments[3]) != 3 {
		t.Fatalf("expected 3 confirmations of slot 3, got %d", len(segments[3]))
	}
}

func TestProcessedTraceScoresAllCategories(t *testing.T) {
	store, x, a, b, l := tourFixture()

	observer := scoring.NewVoteObserver()
	snap, cache, err := Process(store, Options{
		FullLeaderCache: true,
		EntryCallback:   observer.OnEntry,
		NumWorkers:      1,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	record, segments := observer.Freeze()
	excluded := scoring.NewExcludedSet(x, l)

	rewards := (&scoring.RewardsFinder{StartingBalance: startingBalance, Excluded: excluded}).Compute(snap)
	if len(rewards.Winners) != 2 || rewards.Winners[0].Identity != a || rewards.Winners[0].Score != 500 ||
		rewards.Winners[1].Identity != b || rewards.Winners[1].Score != -100 {
		t.Fatalf("unexpected rewards report: %+v", rewards.Winners)
	}

	// Baseline x has no assigned slots, so raw fractions are reported:
	// b produced 1/1, a produced 1/2.
	availability := (&scoring.AvailabilityFinder{Baseline: x, Excluded: excluded}).Compute(snap, store, cache)
	if len(availability.Winners) != 2 || availability.Winners[0].Identity != b || availability.Winners[0].Score != 1 ||
		availability.Winners[1].Identity != a || availability.Winners[1].Score != 0.5 {
		t.Fatalf("unexpected availability report: %+v", availability.Winners)
	}

	// Offsets vs x: a -> 1, 2, 0 (mean 1); b -> 1, 0 (mean 0.5)
	latency := (&scoring.LatencyFinder{Baseline: x, Excluded: excluded}).Compute(record, segments)
	if len(latency.Winners) != 2 || latency.Winners[0].Identity != b || latency.Winners[0].Score != 0.5 ||
		latency.Winners[1].Identity != a || latency.Winners[1].Score != 1 {
		t.Fatalf("unexpected latency report: %+v", latency.Winners)
	}

	// Replaying the same trace again yields byte-identical reports
	observer2 := scoring.NewVoteObserver()
	snap2, cache2, err := Process(store, Options{
		FullLeaderCache: true,
		EntryCallback:   observer2.OnEntry,
		NumWorkers:      1,
	})
	if err != nil {
		t.Fatalf("second Process: %v", err)
	}
	record2, segments2 := observer2.Freeze()
	if !rewards.Equal((&scoring.RewardsFinder{StartingBalance: startingBalance, Excluded: excluded}).Compute(snap2)) {
		t.Fatalf("rewards report not deterministic")
	}
	if !availability.Equal((&scoring.AvailabilityFinder{Baseline: x, Excluded: excluded}).Compute(snap2, store, cache2)) {
		t.Fatalf("availability report not deterministic")
	}
	if !latency.Equal((&scoring.LatencyFinder{Baseline: x, Excluded: excluded}).Compute(record2, segments2)) {
		t.Fatalf("latency report not deterministic")
	}
}

func TestProcessEmptyTrace(t *testing.T) {
	store := ledger.NewMemStore()

	observer := scoring.NewVoteObserver()
	snap, cache, err := Process(store, Options{
		FullLeaderCache: true,
		EntryCallback:   observer.OnEntry,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if snap.Slot != 0 || len(snap.VoteAccounts) != 0 || len(snap.Balances) != 0 {
		t.Fatalf("empty trace must yield an empty snapshot: %+v", snap)
	}

	record, segments := observer.Freeze()
	if len(record) != 0 || len(segments) != 0 {
		t.Fatalf("empty trace must leave the observer empty")
	}

	excluded := scoring.NewExcludedSet(pk(1), pk(2))
	if r := (&scoring.RewardsFinder{StartingBalance: startingBalance, Excluded: excluded}).Compute(snap); len(r.Winners) != 0 {
		t.Fatalf("rewards report must be empty: %+v", r.Winners)
	}
	if r := (&scoring.AvailabilityFinder{Baseline: pk(1), Excluded: excluded}).Compute(snap, store, cache); len(r.Winners) != 0 {
		t.Fatalf("availability report must be empty: %+v", r.Winners)
	}
	if r := (&scoring.LatencyFinder{Baseline: pk(1), Excluded: excluded}).Compute(record, segments); len(r.Winners) != 0 {
		t.Fatalf("latency report must be empty: %+v", r.Winners)
	}
}

func TestProcessHaltAtSlot(t *testing.T) {
	store, _, _, _, _ := tourFixture()

	halt := uint64(3)
	observer := scoring.NewVoteObserver()
	snap, _, err := Process(store, Options{
		HaltAtSlot:    &halt,
		EntryCallback: observer.OnEntry,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if snap.Slot != 3 {
		t.Fatalf("expected halt at slot 3, got %d", snap.Slot)
	}
	if observer.Entries() != 5 {
		t.Fatalf("expected 5 entries up to slot 3, got %d", observer.Entries())
	}
}

func TestProcessStartSlot(t *testing.T) {
	store, x, _, _, _ := tourFixture()

	observer := scoring.NewVoteObserver()
	snap, _, err := Process(store, Options{
		StartSlot:     3,
		EntryCallback: observer.OnEntry,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if snap.Slot != 5 {
		t.Fatalf("expected final slot 5, got %d", snap.Slot)
	}
	record, _ := observer.Freeze()
	if record[x][0].SlotConfirmed != 2 {
		t.Fatalf("slot 2 must not be replayed when starting at 3: %+v", record[x])
	}
}

func TestProcessVerifyLedgerRejectsFutureVote(t *testing.T) {
	store := ledger.NewMemStore()
	store.Blocks[2] = []types.Entry{
		{Votes: []types.Vote{{Voter: pk(1), SlotConfirmed: 10}}},
	}

	_, _, err := Process(store, Options{VerifyLedger: true})
	if err == nil {
		t.Fatalf("expected verification error for a vote confirming a future slot")
	}
}
