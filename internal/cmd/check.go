package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	"github.com/tldsweep/tldsweep/internal/observability"
	"github.com/tldsweep/tldsweep/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Check one domain name across TLDs",
	Long:  "Check availability of a single domain name across the requested TLDs",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSlice("tlds", []string{"com"}, "TLDs to check")
	checkCmd.Flags().String("tld-set", "", "Named TLD set (built-in or from tld_sets_path)")
	checkCmd.Flags().String("output", "table", "Output format: table, json, markdown")
	checkCmd.Flags().Bool("no-cache", false, "Skip cache lookup")
	checkCmd.Flags().Duration("timeout", 0, "Per-lookup timeout (overrides config)")
	checkCmd.Flags().Int("retries", -1, "Retry budget per check (overrides config)")
	checkCmd.Flags().Int("concurrency", 0, "Concurrent lookups within the batch (overrides config)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if err := engine.ValidateName(name); err != nil {
		return err
	}

	tldsFlag, err := cmd.Flags().GetStringSlice("tlds")
	if err != nil {
		return err
	}
	tldSet, err := cmd.Flags().GetString("tld-set")
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	// When only the default --tlds is in play, a named set replaces it
	// rather than extending it.
	if tldSet != "" && !cmd.Flags().Changed("tlds") {
		tldsFlag = nil
	}
	tlds, err := resolveTLDs(tldsFlag, tldSet, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	startedAt := time.Now()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

	checker := buildChecker(cfg, st, !noCache)
	engineCfg := checkConfigFromApp(cfg)
	if err := applyEngineFlagOverrides(cmd, &engineCfg); err != nil {
		return err
	}

	result := checker.CheckDomain(ctx, name, tlds, engineCfg)

	formatter := output.NewFormatter(format)
	rendered, err := formatter.FormatDomain(result)
	if err != nil {
		return err
	}
	if rendered != "" {
		fmt.Println(rendered)
	}

	if format != output.FormatJSON {
		logThroughput(len(result.Results), startedAt)
	}
	return nil
}

func applyEngineFlagOverrides(cmd *cobra.Command, engineCfg *engine.Config) error {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	if timeout > 0 {
		engineCfg.Timeout = timeout
	}

	retries, err := cmd.Flags().GetInt("retries")
	if err != nil {
		return err
	}
	if retries >= 0 {
		engineCfg.Retries = retries
	}

	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	if concurrency > 0 {
		engineCfg.MaxConcurrency = concurrency
	}
	return nil
}

func logThroughput(count int, startedAt time.Time) {
	if count <= 0 {
		return
	}
	elapsed := time.Since(startedAt)
	if elapsed <= 0 {
		return
	}
	rate := float64(count) / elapsed.Seconds()
	observability.CLILogger.Info(
		"Check throughput",
		zap.Int("checks", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate),
	)
}
