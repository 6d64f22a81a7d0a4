package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newHarvestCmd rebuilds the store from archived snapshots.
func newHarvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Rebuild the history from Wayback Machine captures",
		Long: `Lists captures of the problem page over the configured lookback window,
extracts statistics from each one in turn, and overwrites the store with
the records found. Snapshots without data are skipped.`,
		Args: cobra.NoArgs,
		RunE: runHarvestCommand,
	}
}

func runHarvestCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	result, err := appInstance.Harvester().Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}
	appInstance.Logger().Info("harvest finished",
		zap.Int("snapshots", result.Snapshots),
		zap.Int("records", len(result.Data.Records)),
	)
	return nil
}
