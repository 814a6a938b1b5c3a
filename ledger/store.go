package ledger

import (
	"github.com/gagliardetto/solana-go"

	"winnertool/types"
)

// BlockStore is the ledger surface the replay engine and the availability
// scoring read from.
type BlockStore interface {
	// SlotRange returns the first and last slot the store can serve.
	SlotRange() (uint64, uint64, error)
	// HasBlock reports whether a block was actually produced for the slot.
	HasBlock(slot uint64) (bool, error)
	// Entries returns the replayable entries of the slot's block, in ledger order.
	Entries(slot uint64) ([]types.Entry, error)
	// SlotLeaders returns the leader assignment for the slot range, inclusive.
	SlotLeaders(first, last uint64) (types.SlotLeaders, error)
	// Balance returns the final lamport balance of an identity. The second
	// return reports whether the store knows the account at all.
	Balance(id solana.PublicKey) (uint64, bool, error)
}

// MemStore is an in-memory BlockStore for fixture replays and tests.
// Slots without an entry in Blocks are skipped slots.
type MemStore struct {
	Blocks   map[uint64][]types.Entry
	Leaders  map[uint64]solana.PublicKey
	Lamports map[solana.PublicKey]uint64
}

func NewMemStore() *MemStore {
	return &MemStore{
		Blocks:   make(map[uint64][]types.Entry),
		Leaders:  make(map[uint64]solana.PublicKey),
		Lamports: make(map[solana.PublicKey]uint64),
	}
}

func (s *MemStore) SlotRange() (uint64, uint64, error) {
	var first, last uint64
	seen := false
	for slot := range s.Blocks {
		if !seen || slot < first {
			first = slot
		}
		if slot > last {
			last = slot
		}
		seen = true
	}
	return first, last, nil
}

func (s *MemStore) HasBlock(slot uint64) (bool, error) {
	_, ok := s.Blocks[slot]
	return ok, nil
}

func (s *MemStore) Entries(slot uint64) ([]types.Entry, error) {
	return s.Blocks[slot], nil
}

func (s *MemStore) SlotLeaders(first, last uint64) (types.SlotLeaders, error) {
	leaders := make(types.SlotLeaders, 0, len(s.Leaders))
	for slot := first; slot <= last; slot++ {
		if leader, ok := s.Leaders[slot]; ok {
			leaders = append(leaders, &types.SlotLeader{Slot: slot, Leader: leader.String()})
		}
	}
	return leaders, nil
}

func (s *MemStore) Balance(id solana.PublicKey) (uint64, bool, error) {
	lamports, ok := s.Lamports[id]
	return lamports, ok, nil
}
