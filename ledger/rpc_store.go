package ledger

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"winnertool/config"
	"winnertool/types"
)

// RPCStore serves ledger data over Solana JSON-RPC. Produced-slot probes are
// cached per chunk so availability scoring does not re-fetch ranges the
// replay pass already walked.
type RPCStore struct {
	produced map[uint64]bool
	loaded   map[uint64]bool // chunk base slot -> getBlocks fetched
}

func NewRPCStore() *RPCStore {
	return &RPCStore{
		produced: make(map[uint64]bool),
		loaded:   make(map[uint64]bool),
	}
}

func (s *RPCStore) SlotRange() (uint64, uint64, error) {
	first, err := GetFirstAvailableBlock()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get first available block: %w", err)
	}
	last, err := GetCurrentSlot()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current slot: %w", err)
	}
	return first, last, nil
}

func (s *RPCStore) HasBlock(slot uint64) (bool, error) {
	base := slot - slot%config.SOL_FETCH_BLOCKS_CHUNK
	if !s.loaded[base] {
		slots, err := GetBlocks(base, base+config.SOL_FETCH_BLOCKS_CHUNK-1)
		if err != nil {
			return false, fmt.Errorf("failed to probe blocks from %d: %w", base, err)
		}
		for _, produced := range slots {
			s.produced[produced] = true
		}
		s.loaded[base] = true
	}
	return s.produced[slot], nil
}

func (s *RPCStore) Entries(slot uint64) ([]types.Entry, error) {
	return GetBlockEntries(slot)
}

func (s *RPCStore) SlotLeaders(first, last uint64) (types.SlotLeaders, error) {
	res := make(types.SlotLeaders, 0, last-first+1)
	for start := first; start <= last; {
		limit := uint64(config.SOL_FETCH_SLOT_LEADER_LIMIT)
		if start+limit > last+1 {
			limit = last - start + 1
		}
		leaders, err := GetSlotLeaders(start, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to get slot leaders from %d: %w", start, err)
		}
		if len(leaders) == 0 {
			return nil, fmt.Errorf("RPC returned no slot leaders from %d", start)
		}
		res = append(res, leaders...)
		start += uint64(len(leaders))
		if start <= last {
			// Stay under RPC rate limits
			time.Sleep(config.SOL_FETCH_SHORT_INTERVAL)
		}
	}
	return res, nil
}

func (s *RPCStore) Balance(id solana.PublicKey) (uint64, bool, error) {
	lamports, err := GetBalance(id)
	if err != nil {
		return 0, false, err
	}
	return lamports, true, nil
}
