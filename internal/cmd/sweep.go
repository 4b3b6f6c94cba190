package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	"github.com/tldsweep/tldsweep/internal/metrics"
	"github.com/tldsweep/tldsweep/internal/output"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [names...]",
	Short: "Sweep multiple domain names across TLDs",
	Long: `Run a unified availability sweep: every name is checked against every
requested TLD. Names come from the arguments or --names-file (use "-"
for stdin, one name per line, # comments allowed).

Ctrl+C cancels cooperatively: in-flight lookups finish and the partial
results are printed with a cancelled marker.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().String("names-file", "", "File with names to sweep, one per line (\"-\" for stdin)")
	sweepCmd.Flags().StringSlice("tlds", nil, "TLDs to check")
	sweepCmd.Flags().String("tld-set", "", "Named TLD set (built-in or from tld_sets_path)")
	sweepCmd.Flags().String("output", "table", "Output format: table, json, markdown")
	sweepCmd.Flags().Bool("no-cache", false, "Skip cache lookup")
	sweepCmd.Flags().Bool("no-progress", false, "Suppress the progress line on stderr")
	sweepCmd.Flags().Duration("timeout", 0, "Per-lookup timeout (overrides config)")
	sweepCmd.Flags().Int("retries", -1, "Retry budget per check (overrides config)")
	sweepCmd.Flags().Int("concurrency", 0, "Concurrent lookups within one name's batch (overrides config)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	namesFile, err := cmd.Flags().GetString("names-file")
	if err != nil {
		return err
	}
	names, err := resolveNames(args, namesFile)
	if err != nil {
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
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	tlds, err := resolveTLDs(tldsFlag, tldSet, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	token := engine.NewCancelToken()
	unbind := token.BindContext(ctx)
	defer unbind()
	engineCfg.Token = token

	showProgress := !noProgress && format != output.FormatJSON
	if showProgress {
		engineCfg.OnOverallProgress = printOverallProgress
	}

	startedAt := time.Now()
	result := checker.CheckDomains(ctx, names, tlds, engineCfg)
	if showProgress {
		fmt.Fprintln(os.Stderr)
	}

	metrics.RecordSweep(len(names), len(tlds), result.Cancelled, time.Since(startedAt))

	rendered, err := output.FormatUnified(format, result)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rendered) != "" {
		fmt.Println(rendered)
	}

	if result.Cancelled && format != output.FormatJSON {
		fmt.Fprintln(os.Stderr, "sweep cancelled; partial results shown")
	}
	return nil
}

// printOverallProgress rewrites a single stderr line per update.
func printOverallProgress(progress core.OverallProgress) {
	domain := progress.CurrentDomain
	if domain == "" {
		domain = "-"
	}
	current := progress.DomainsCompleted
	if current < progress.TotalDomains {
		current++
	}
	fmt.Fprintf(os.Stderr, "\r[%d/%d] %d%% (domain %d/%d: %s)   ",
		progress.Completed, progress.Total, progress.OverallPercentage,
		current, progress.TotalDomains, domain)
}
