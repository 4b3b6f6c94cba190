package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/observability"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the verdict cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cached verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

		removed, err := st.PruneExpired(cmd.Context())
		if err != nil {
			return err
		}

		observability.CLILogger.Info("Verdict cache pruned",
			zap.Int64("removed", removed),
			zap.String("database", getDBPath()))
		fmt.Printf("Removed %d expired verdicts\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
