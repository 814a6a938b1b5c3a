package cmd

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"winnertool/config"
	"winnertool/db"
	"winnertool/ledger"
	"winnertool/logger"
	"winnertool/replay"
	"winnertool/scoring"
	"winnertool/utils"
)

var (
	winnersRPC          string
	winnersStartSlot    uint64
	winnersFinalSlot    uint64
	winnersStartingSOL  float64
	winnersBaselineStr  string
	winnersBootstrapStr string
	winnersStore        bool
)

var winnersCmd = cobra.Command{
	Use:   "winners",
	Short: "Replay the ledger and compute the three category winner reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.InitLogs("winners")

		baseline, err := solana.PublicKeyFromBase58(winnersBaselineStr)
		if err != nil {
			return fmt.Errorf("failed to create a valid pubkey from %q: %w", winnersBaselineStr, err)
		}
		bootstrap, err := solana.PublicKeyFromBase58(winnersBootstrapStr)
		if err != nil {
			return fmt.Errorf("failed to create a valid pubkey from %q: %w", winnersBootstrapStr, err)
		}
		if winnersRPC != "" {
			ledger.SolanaRpcURL = winnersRPC
		}

		observer := scoring.NewVoteObserver()
		opts := replay.Options{
			VerifyLedger:    false,
			StartSlot:       winnersStartSlot,
			FullLeaderCache: true, // availability scoring needs the whole schedule
			EntryCallback:   observer.OnEntry,
			NumWorkers:      1, // the callback must never run concurrently
		}
		if winnersFinalSlot > 0 {
			opts.HaltAtSlot = &winnersFinalSlot
		}

		store := ledger.NewRPCStore()
		logger.ReplayLogger.Info("Processing ledger...", "startSlot", winnersStartSlot, "finalSlot", winnersFinalSlot)
		snap, cache, err := replay.Process(store, opts)
		if err != nil {
			return fmt.Errorf("failed to process ledger: %w", err)
		}

		voterRecord, slotVoterSegments := observer.Freeze()
		excluded := scoring.NewExcludedSet(baseline, bootstrap)
		startingBalance := utils.SolToLamports(winnersStartingSOL)

		rewards := (&scoring.RewardsFinder{StartingBalance: startingBalance, Excluded: excluded}).Compute(snap)
		availability := (&scoring.AvailabilityFinder{Baseline: baseline, Excluded: excluded}).Compute(snap, store, cache)
		latency := (&scoring.LatencyFinder{Baseline: baseline, Excluded: excluded}).Compute(voterRecord, slotVoterSegments)

		reports := []*scoring.Report{rewards, availability, latency}
		for _, r := range reports {
			fmt.Println(r)
			logger.ScoreLogger.Info("Computed winner report", "category", r.Category, "ranked", len(r.Winners))
		}

		if winnersStore {
			ch := db.NewClickhouse()
			defer ch.Close()
			if err := ch.EnsureDatabaseExists(); err != nil {
				return fmt.Errorf("failed to ensure database: %w", err)
			}
			if err := ch.CreateTables(); err != nil {
				return fmt.Errorf("failed to create tables: %w", err)
			}
			runAt := time.Now()
			for _, r := range reports {
				if err := ch.InsertWinnerRows(r.Rows(runAt)); err != nil {
					return fmt.Errorf("failed to store %s report: %w", r.Category, err)
				}
			}
			logger.ScoreLogger.Info("Stored winner reports", "runAt", runAt)
		}
		return nil
	},
}

func init() {
	winnersCmd.Flags().StringVar(&winnersRPC, "rpc", "", "(Optional) Solana RPC endpoint, overrides sol.rpc from config")
	winnersCmd.Flags().Uint64VarP(&winnersStartSlot, "start-slot", "s", 0, "(Optional) first slot of the tour ledger")
	winnersCmd.Flags().Uint64VarP(&winnersFinalSlot, "final-slot", "e", 0, "(Optional) final slot of the tour ledger")
	winnersCmd.Flags().Float64Var(&winnersStartingSOL, "starting-balance", config.STARTING_BALANCE_SOL, "Starting balance of validators at the beginning of the tour, in SOL")
	winnersCmd.Flags().StringVar(&winnersBaselineStr, "baseline-validator", "", "Public key of the baseline validator")
	winnersCmd.Flags().StringVar(&winnersBootstrapStr, "bootstrap-leader", "", "Public key of the bootstrap leader")
	winnersCmd.Flags().BoolVar(&winnersStore, "store", false, "Store the computed reports into ClickHouse")
	_ = winnersCmd.MarkFlagRequired("baseline-validator")
	_ = winnersCmd.MarkFlagRequired("bootstrap-leader")
	RootCmd.AddCommand(&winnersCmd)
}
