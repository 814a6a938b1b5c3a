package replay

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"winnertool/ledger"
	"winnertool/logger"
	"winnertool/types"
)

// Progress log cadence, in slots
const logEvery = 10000

// EntryCallback is invoked once per replayed entry with the slot the entry
// belongs to and the vote-accounts view after applying the entry. The view is
// the engine's live state: callbacks must treat it as read-only.
type EntryCallback func(slot uint64, voteAccounts types.VoteAccountsView)

// Options control one replay pass, mirroring the ledger processor's knobs:
// integrity verification, an optional halt slot, a full-range leader cache
// and an injected per-entry callback with a forced single-worker hint.
type Options struct {
	VerifyLedger    bool
	StartSlot       uint64
	HaltAtSlot      *uint64
	FullLeaderCache bool
	EntryCallback   EntryCallback
	NumWorkers      int
}

// Process replays the block store forward-only, exactly once, invoking the
// entry callback synchronously per entry. It returns the final account
// snapshot and, when requested, the leader schedule for the replayed range.
// The callback has finished all invocations by the time Process returns.
func Process(store ledger.BlockStore, opts Options) (*types.Snapshot, *types.LeaderScheduleCache, error) {
	if opts.NumWorkers > 1 && opts.EntryCallback != nil {
		logger.ReplayLogger.Warn("Entry callback forces a single replay worker", "requested", opts.NumWorkers)
	}

	first, last, err := store.SlotRange()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve slot range: %w", err)
	}
	if opts.StartSlot > first {
		first = opts.StartSlot
	}
	if opts.HaltAtSlot != nil && *opts.HaltAtSlot < last {
		last = *opts.HaltAtSlot
	}

	voteState := make(types.VoteAccountsView)
	var processedSlot, entryCount, blockCount uint64

	for slot := first; slot <= last; slot++ {
		has, err := store.HasBlock(slot)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to probe slot %d: %w", slot, err)
		}
		if !has {
			continue
		}
		entries, err := store.Entries(slot)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read entries of slot %d: %w", slot, err)
		}
		for _, entry := range entries {
			for _, v := range entry.Votes {
				if opts.VerifyLedger && v.SlotConfirmed > slot {
					return nil, nil, fmt.Errorf("vote by %s at slot %d confirms future slot %d", v.Voter, slot, v.SlotConfirmed)
				}
				if cur, ok := voteState[v.Voter]; !ok || v.SlotConfirmed > cur {
					voteState[v.Voter] = v.SlotConfirmed
				}
			}
			if opts.EntryCallback != nil {
				opts.EntryCallback(slot, voteState)
			}
			entryCount++
		}
		processedSlot = slot
		blockCount++
		if blockCount%logEvery == 0 {
			logger.ReplayLogger.Info("Replay progress", "slot", slot, "blocks", blockCount, "entries", entryCount)
		}
	}
	logger.ReplayLogger.Info("Replay finished", "lastSlot", processedSlot, "blocks", blockCount, "entries", entryCount, "voters", len(voteState))

	snap := &types.Snapshot{
		Slot:         processedSlot,
		Balances:     make(map[solana.PublicKey]uint64, len(voteState)),
		VoteAccounts: voteState,
	}
	for id := range voteState {
		lamports, found, err := store.Balance(id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch balance of %s: %w", id, err)
		}
		if found {
			snap.Balances[id] = lamports
		}
	}

	var cache *types.LeaderScheduleCache
	if opts.FullLeaderCache {
		leaders, err := store.SlotLeaders(first, last)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch slot leaders: %w", err)
		}
		cache, err = types.NewLeaderScheduleCache(leaders)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build leader schedule cache: %w", err)
		}
	}

	return snap, cache, nil
}
