package cmd

import (
	"github.com/spf13/cobra"

	"winnertool/db"
	"winnertool/logger"
)

var resetCmd = cobra.Command{
	Use:   "reset",
	Short: "Drop all winnertool tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ch := db.NewClickhouse()
		defer ch.Close()

		logger.GlobalLogger.Info("Dropping tables in database...")
		if err := ch.DropTables(); err != nil {
			return err
		}
		logger.GlobalLogger.Info("Done.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(&resetCmd)
}
