package playerstats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"statsguru-export/lib/scrapers/statsguru"
	"statsguru-export/lib/telemetry"
	"statsguru-export/lib/textutil"

	"statsguru-export/services/playerstats/db"
)

var tracer = telemetry.Tracer("services/playerstats")

type Service struct {
	client *statsguru.Client
}

func NewService(client *statsguru.Client) *Service {
	return &Service{client: client}
}

type Options struct {
	PlayerID int
	OutDir   string
	// Specs defaults to statsguru.DefaultSpecs when empty.
	Specs []statsguru.QuerySpec
	// Queries, when non-nil, mirrors every exported table into sqlite.
	// The mirror is best-effort: a failed insert is logged, not fatal.
	Queries *db.Queries
}

// Export drives the whole pipeline for one player: fetch each category
// page, lift its tables, normalize, then write a csv per category and
// one workbook for the run. Categories are processed strictly one at a
// time, in order; the site's bot defense keys on request cadence.
//
// Category-level failures (unparseable page, schema collision, transient
// fetch that exhausted its retries) are recorded as skips and the run
// continues. Run-level failures (bot-defense block, unknown player id,
// sink errors) abort immediately; the returned report still covers
// whatever completed first, and the files already written stay on disk.
func (s *Service) Export(ctx context.Context, opts Options) (*RunReport, error) {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()

	specs := opts.Specs
	if len(specs) == 0 {
		specs = statsguru.DefaultSpecs()
	}

	// the output directory either exists before the first write or the
	// run dies here, never halfway
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, &ExportError{Path: opts.OutDir, Err: err}
	}

	report := &RunReport{PlayerID: opts.PlayerID, OutDir: opts.OutDir}
	wb := newWorkbook()
	defer wb.close()

	slog.InfoContext(ctx, "starting export",
		"player_id", opts.PlayerID,
		"specs", len(specs),
		"out_dir", opts.OutDir,
	)

	for _, spec := range specs {
		key := spec.Key()
		url := s.client.PlayerURL(opts.PlayerID, spec)

		html, err := s.client.Fetch(ctx, url)
		if err != nil {
			var fetchErr *statsguru.FetchError
			if errors.As(err, &fetchErr) {
				slog.WarnContext(ctx, "skipping category, fetch failed", "key", key, "err", err)
				report.Skipped = append(report.Skipped, Skip{Key: key, URL: url, Reason: err.Error()})
				continue
			}
			// blocked, unknown player, cancellation: nothing later can
			// succeed either
			return report, err
		}

		tables, err := statsguru.ExtractTables(html)
		if err != nil {
			slog.WarnContext(ctx, "skipping category, unparseable page", "key", key, "err", err)
			report.Skipped = append(report.Skipped, Skip{Key: key, URL: url, Reason: err.Error()})
			continue
		}
		if len(tables) == 0 {
			// common for unsupported type/view/class combinations, a
			// page without a data table is not a failure
			slog.DebugContext(ctx, "no data table", "key", key)
			continue
		}

		title := statsguru.ExtractTitle(html)
		merged, err := statsguru.Normalize(key, tables)
		if err == nil {
			err = merged.AddLeadingColumns(metaColumns(url, title, spec))
		}
		if err != nil {
			slog.WarnContext(ctx, "skipping category, bad schema", "key", key, "err", err)
			report.Skipped = append(report.Skipped, Skip{Key: key, URL: url, Reason: err.Error()})
			continue
		}

		csvPath := filepath.Join(opts.OutDir, textutil.SafeFilename(key)+".csv")
		if err := writeCSV(merged, csvPath); err != nil {
			return report, err
		}

		sheet := wb.sheetFor(key)
		if err := wb.appendSheet(sheet, merged); err != nil {
			return report, &ExportError{Path: "workbook:" + sheet, Err: err}
		}

		if opts.Queries != nil {
			if err := mirrorTable(ctx, opts.Queries, opts.PlayerID, url, title, merged); err != nil {
				slog.WarnContext(ctx, "failed to mirror table to db", "key", key, "err", err)
			}
		}

		report.Exported = append(report.Exported, ExportedTable{
			Key:     key,
			CSVPath: csvPath,
			Sheet:   sheet,
			Rows:    merged.Len(),
		})
		slog.InfoContext(ctx, "exported category", "key", key, "rows", merged.Len())
	}

	if len(report.Exported) > 0 {
		path := filepath.Join(opts.OutDir, fmt.Sprintf("player_%d_cricinfo_tables.xlsx", opts.PlayerID))
		if err := wb.save(path); err != nil {
			return report, err
		}
		report.WorkbookPath = path
	}

	if len(report.Skipped) > 0 {
		logPath := filepath.Join(opts.OutDir, "failures.txt")
		if err := writeFailureLog(logPath, report.Skipped); err != nil {
			slog.WarnContext(ctx, "failed to write failure log", "path", logPath, "err", err)
		}
	}

	return report, nil
}

func metaColumns(url, title string, spec statsguru.QuerySpec) [][2]string {
	class := ""
	if spec.Class != statsguru.ClassUnset {
		class = fmt.Sprintf("%d", spec.Class)
	}
	return [][2]string{
		{"_url", url},
		{"_title", title},
		{"_type", spec.Type},
		{"_view", spec.View},
		{"_class", class},
	}
}

func mirrorTable(ctx context.Context, queries *db.Queries, playerID int, url, title string, table *statsguru.NormalizedTable) error {
	id, err := queries.InsertTable(ctx, db.InsertTableParams{
		PlayerID: int64(playerID),
		Key:      table.Key,
		Url:      url,
		Title:    title,
		RowCount: int64(table.Len()),
	})
	if err != nil {
		return err
	}
	for i, record := range table.Records() {
		for j, value := range record {
			err := queries.InsertCell(ctx, db.InsertCellParams{
				TableID:    id,
				RowIdx:     int64(i),
				ColIdx:     int64(j),
				ColumnName: table.Columns[j],
				Value:      value,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
