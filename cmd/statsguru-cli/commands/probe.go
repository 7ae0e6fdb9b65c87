package commands

import (
	"fmt"

	"statsguru-export/lib/scrapers/statsguru"
	"statsguru-export/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var probePlayer *int
var probeType *string
var probeView *string
var probeClass *int
var probeLimit *int

func init() {
	probePlayer = probeCmd.Flags().Int("player", 0, "ESPNcricinfo player id.")
	probeType = probeCmd.Flags().String("type", "batting", "Statistics type: batting, bowling or fielding.")
	probeView = probeCmd.Flags().String("view", "results", "Statsguru view, e.g. innings, results, dismissal_summary.")
	probeClass = probeCmd.Flags().Int("class", 0, "Match format class (1=Tests ... 6=all T20s), 0 to omit.")
	probeLimit = probeCmd.Flags().Int("limit", 20, "Maximum rows to print.")
	probeCmd.MarkFlagRequired("player")
	rootCmd.AddCommand(probeCmd)
}

// probe exists to debug site changes: it runs a single fetch+extract
// cycle and prints what came back, without touching the filesystem.
var probeCmd = &cobra.Command{
	Use:   "probe --player <id> [--type batting] [--view results] [--class 1]",
	Short: "Fetches one statistics page and prints its tables.",
	Run: func(cmd *cobra.Command, args []string) {
		spec := statsguru.QuerySpec{
			Type:  *probeType,
			View:  *probeView,
			Class: statsguru.Class(*probeClass),
		}

		client := statsguru.NewClient(statsguru.ClientOptions{})
		url := client.PlayerURL(*probePlayer, spec)
		fmt.Println(url)

		html, err := client.Fetch(cmd.Context(), url)
		if err != nil {
			serviceutil.Fatal("fetch failed", err)
		}

		tables, err := statsguru.ExtractTables(html)
		if err != nil {
			serviceutil.Fatal("parse failed", err)
		}
		fmt.Printf("%s: %d tables\n", statsguru.ExtractTitle(html), len(tables))

		for _, raw := range tables {
			t := newTable()
			header := make(table.Row, len(raw.Headers))
			for i, h := range raw.Headers {
				header[i] = h
			}
			t.AppendHeader(header)

			for i, row := range raw.Rows {
				if i >= *probeLimit {
					t.AppendFooter(table.Row{fmt.Sprintf("... %d more rows", len(raw.Rows)-*probeLimit)})
					break
				}
				r := make(table.Row, len(row))
				for j, v := range row {
					r[j] = v
				}
				t.AppendRow(r)
			}
			t.Render()
		}
	},
}
