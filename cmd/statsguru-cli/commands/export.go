package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"statsguru-export/lib/restyutil"
	"statsguru-export/lib/scrapers/statsguru"
	"statsguru-export/lib/serviceutil"
	"statsguru-export/services/playerstats"
	"statsguru-export/services/playerstats/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var exportPlayer *int
var exportOut *string
var exportDb *string
var exportDelay *time.Duration
var exportDebug *bool

func init() {
	exportPlayer = exportCmd.Flags().Int("player", 0, "ESPNcricinfo player id (e.g. 625371).")
	exportOut = exportCmd.Flags().String("out", "cricinfo_out", "Output directory.")
	exportDb = exportCmd.Flags().String("db", "", "Optionally mirror exported tables into this sqlite database.")
	exportDelay = exportCmd.Flags().Duration("delay", 700*time.Millisecond, "Minimum delay between requests.")
	exportDebug = exportCmd.Flags().Bool("dump-http", false, "Dump http transcripts to .dev/resty/statsguru.")
	exportCmd.MarkFlagRequired("player")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export --player <id> [--out <dir>] [--db <path>]",
	Short: "Exports every statistics table for a player to csv files and one workbook.",
	Run: func(cmd *cobra.Command, args []string) {
		var debug restyutil.InstrumentOutput
		if *exportDebug {
			debug = restyutil.NewFilesystemOutput(".dev/resty/statsguru")
		}

		client := statsguru.NewClient(statsguru.ClientOptions{
			Delay: *exportDelay,
			Debug: debug,
		})

		opts := playerstats.Options{
			PlayerID: *exportPlayer,
			OutDir:   *exportOut,
		}
		if *exportDb != "" {
			sqlite, err := sql.Open("sqlite", *exportDb)
			if err != nil {
				serviceutil.Fatal("failed to open db", err)
			}
			defer sqlite.Close()
			if _, err := sqlite.Exec(db.Schema); err != nil {
				serviceutil.Fatal("failed to apply db schema", err)
			}
			opts.Queries = db.New(sqlite)
		}

		t1 := time.Now()
		report, err := playerstats.NewService(client).Export(cmd.Context(), opts)
		if report != nil {
			printSummary(report)
		}
		if err != nil {
			serviceutil.Fatal("export aborted", err)
		}
		slog.Info("export finished", "seconds", time.Since(t1).Seconds())
	},
}

func printSummary(report *playerstats.RunReport) {
	if len(report.Exported) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"Category", "Rows", "Sheet", "CSV"})
		for _, e := range report.Exported {
			t.AppendRow(table.Row{e.Key, e.Rows, e.Sheet, e.CSVPath})
		}
		t.Render()
	}

	if len(report.Skipped) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"Skipped category", "Reason"})
		for _, s := range report.Skipped {
			t.AppendRow(table.Row{s.Key, s.Reason})
		}
		t.Render()
	}

	fmt.Printf(
		"exported %d categories, skipped %d\n",
		len(report.Exported), len(report.Skipped),
	)
	if report.WorkbookPath != "" {
		fmt.Printf("workbook: %s\n", report.WorkbookPath)
	}
}
