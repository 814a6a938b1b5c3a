package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "winnertool",
	Short: "A tool for computing category winners of a tour ledger",
}
