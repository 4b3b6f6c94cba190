package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
)

var tldSetsCmd = &cobra.Command{
	Use:   "tld-sets",
	Short: "List available TLD sets",
	Long:  "List built-in TLD sets and any custom sets from tld_sets_path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		var userSets []core.TLDSet
		if cfg != nil && cfg.TLDSetsPath != "" {
			loaded, err := core.LoadTLDSets(cfg.TLDSetsPath)
			if err != nil {
				return err
			}
			userSets = loaded
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Name", "Source", "TLDs", "Description"})

		for _, set := range core.BuiltInTLDSets {
			t.AppendRow(table.Row{set.Name, "built-in", strings.Join(set.TLDs, ", "), set.Description})
		}
		for _, set := range userSets {
			t.AppendRow(table.Row{set.Name, "custom", strings.Join(set.TLDs, ", "), set.Description})
		}

		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tldSetsCmd)
}
