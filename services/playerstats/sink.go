package playerstats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"statsguru-export/lib/scrapers/statsguru"
	"statsguru-export/lib/textutil"

	"github.com/xuri/excelize/v2"
)

// writeCSV writes one normalized table with standard quoting so the file
// round-trips through any csv reader.
func writeCSV(table *statsguru.NormalizedTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		f.Close()
		return &ExportError{Path: path, Err: err}
	}
	if err := w.WriteAll(table.Records()); err != nil {
		f.Close()
		return &ExportError{Path: path, Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &ExportError{Path: path, Err: err}
	}
	return f.Close()
}

// workbook aggregates every exported category into one xlsx file, one
// sheet per category.
type workbook struct {
	file  *excelize.File
	used  map[string]bool
	count int
}

func newWorkbook() *workbook {
	return &workbook{
		file: excelize.NewFile(),
		used: map[string]bool{},
	}
}

// sheetFor derives a unique legal sheet name from a category key. The
// 31-character cap can make distinct keys collide after truncation, so
// collisions get a numeric suffix.
func (wb *workbook) sheetFor(key string) string {
	base := textutil.SheetName(textutil.SafeFilename(key))
	name := base
	for n := 2; wb.used[name]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		name = textutil.SheetName(base[:min(len(base), 31-len(suffix))] + suffix)
	}
	wb.used[name] = true
	return name
}

func (wb *workbook) appendSheet(sheet string, table *statsguru.NormalizedTable) error {
	if wb.count == 0 {
		// excelize seeds new files with an empty Sheet1, reuse it for
		// the first category instead of leaving it dangling
		if err := wb.file.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	} else {
		if _, err := wb.file.NewSheet(sheet); err != nil {
			return err
		}
	}
	wb.count++

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := wb.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, record := range table.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := wb.file.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) save(path string) error {
	if err := wb.file.SaveAs(path); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

func (wb *workbook) close() {
	wb.file.Close()
}

// writeFailureLog mirrors the skip list into failures.txt next to the
// exported files, one block per failed category.
func writeFailureLog(path string, skipped []Skip) error {
	var out strings.Builder
	for _, s := range skipped {
		out.WriteString(s.URL)
		out.WriteString("\n")
		out.WriteString(s.Reason)
		out.WriteString("\n")
		out.WriteString(strings.Repeat("-", 80))
		out.WriteString("\n")
	}
	return os.WriteFile(path, []byte(out.String()), 0644)
}
