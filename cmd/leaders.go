package cmd

import (
	"github.com/spf13/cobra"

	"winnertool/ledger"
	"winnertool/logger"
)

var leadersStartSlot uint64

var leadersCmd = cobra.Command{
	Use:   "leaders",
	Short: "Sync the slot-leader schedule into ClickHouse",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.InitLogs("leaders")
		logger.ReplayLogger.Info("Running cmd leaders, syncing slot leaders...", "start", leadersStartSlot)
		return ledger.RunLeadersCmd(leadersStartSlot)
	},
}

func init() {
	leadersCmd.Flags().Uint64VarP(&leadersStartSlot, "slot", "s", 0, "(Optional) starting slot number")
	RootCmd.AddCommand(&leadersCmd)
}
