package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newFetchCmd upserts today's record from the live API.
func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Record today's statistics from the live GraphQL API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := appInstance.LiveFetcher().Run(cmd.Context()); err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			return nil
		},
	}
}
