package statsguru

import (
	"fmt"
	"strings"

	"statsguru-export/lib/htmlutil"
	"statsguru-export/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// RawTable is one HTML table lifted straight off a page: a header row
// plus at least one data row. It only lives long enough to be merged
// into a NormalizedTable.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ExtractTables returns every structurally valid table in the document.
// Discovery keys on shape (a header row and >=1 data row), never on the
// site's class names or element positions, which change without notice.
// A parseable page with zero data tables returns an empty slice.
func ExtractTables(html string) ([]RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var tables []RawTable
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		if table, ok := liftTable(sel); ok {
			tables = append(tables, table)
		}
	})
	return tables, nil
}

// ExtractTitle returns the page <title>, or a fallback when absent.
func ExtractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "cricinfo_page"
	}
	title := textutil.CollapseWhitespace(doc.Find("title").First().Text())
	if title == "" {
		return "cricinfo_page"
	}
	return title
}

func liftTable(sel *goquery.Selection) (RawTable, bool) {
	headers := headerRow(sel)
	rows := dataRows(sel)
	if len(headers) == 0 || len(rows) == 0 {
		return RawTable{}, false
	}

	// make the table rectangular up front: rows can run long when the
	// site appends unlabeled cells, short when a spanned cell collapses
	width := len(headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(headers) < width {
		headers = append(headers, fmt.Sprintf("col%d", len(headers)+1))
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	return RawTable{Headers: headers, Rows: rows}, true
}

func headerRow(table *goquery.Selection) []string {
	row := table.Find("thead tr").First()
	if row.Length() == 0 {
		// no thead: accept the first row if it is made of th cells
		first := table.Find("tr").First()
		if first.Find("th").Length() > 0 {
			row = first
		}
	}
	if row.Length() == 0 {
		return nil
	}

	var headers []string
	empty := 0
	row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		text := htmlutil.CellText(cell.Nodes[0])
		if text == "" {
			empty++
			text = fmt.Sprintf("col%d", len(headers)+1)
		}
		headers = append(headers, text)
	})
	if empty == len(headers) {
		// a row of entirely blank cells is a spacer, not a header
		return nil
	}
	return headers
}

func dataRows(table *goquery.Selection) [][]string {
	body := table.Find("tbody tr")
	if body.Length() == 0 {
		all := table.Find("tr")
		if all.Length() < 2 {
			return nil
		}
		body = all.Slice(1, goquery.ToEnd)
	}

	var rows [][]string
	body.Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("th").Length() > 0 && tr.Find("td").Length() == 0 {
			// repeated header row mid-table
			return
		}
		var row []string
		blank := true
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			text := htmlutil.CellText(cell.Nodes[0])
			if text != "" {
				blank = false
			}
			row = append(row, text)
		})
		if len(row) == 0 || blank {
			return
		}
		rows = append(rows, row)
	})
	return rows
}
