package ledger

import (
	"fmt"
	"time"

	"winnertool/config"
	"winnertool/db"
	"winnertool/logger"
)

// RunLeadersCmd syncs the slot-leader schedule from the RPC into ClickHouse,
// from startSlot (or the last synced slot, whichever is later) up to the
// current finalized slot.
func RunLeadersCmd(startSlot uint64) error {
	ch := db.NewClickhouse()
	defer ch.Close()

	if err := ch.EnsureDatabaseExists(); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := ch.CreateTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	lastSlotInDB, err := ch.QueryLastSlotLeader()
	if err != nil {
		return fmt.Errorf("failed to query last slot leader: %w", err)
	}
	logger.ReplayLogger.Info("Last slot leader in DB", "slot", lastSlotInDB)

	currentSlot, err := GetCurrentSlot()
	if err != nil {
		return fmt.Errorf("failed to get current slot: %w", err)
	}
	logger.ReplayLogger.Info("Current slot from Solana RPC", "slot", currentSlot)

	startSlot = max(startSlot, lastSlotInDB+1)
	if startSlot > currentSlot {
		logger.ReplayLogger.Warn("Start slot is greater than current slot, nothing to do", "startSlot", startSlot, "currentSlot", currentSlot)
		return nil
	}

	logger.ReplayLogger.Info("Syncing slot leaders", "startSlot", startSlot, "currentSlot", currentSlot)
	for startSlot <= currentSlot {
		limit := uint64(config.SOL_FETCH_SLOT_LEADER_LIMIT)
		if startSlot+limit > currentSlot+1 {
			limit = currentSlot - startSlot + 1
		}

		leaders, err := GetSlotLeaders(startSlot, limit)
		if err != nil {
			return fmt.Errorf("failed to get slot leaders from %d: %w", startSlot, err)
		}
		if len(leaders) == 0 {
			return fmt.Errorf("RPC returned no slot leaders from %d", startSlot)
		}
		if err := ch.InsertSlotLeaders(leaders); err != nil {
			return fmt.Errorf("failed to insert slot leaders: %w", err)
		}
		logger.ReplayLogger.Info("Inserted slot leaders", "count", len(leaders), "start", startSlot, "limit", limit)

		startSlot += uint64(len(leaders))
		if startSlot <= currentSlot {
			// Sleep a while to avoid hitting rate limit
			time.Sleep(config.SOL_FETCH_SHORT_INTERVAL)
		}
	}
	return nil
}
