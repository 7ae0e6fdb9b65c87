package playerstats

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"statsguru-export/lib/scrapers/statsguru"
	"statsguru-export/lib/telemetry"
	"statsguru-export/lib/testutil"
	"statsguru-export/services/playerstats/db"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const battingHTML = `<html><head><title>Batting | Statsguru</title></head><body>
<table class="engineTable">
<thead><tr><th>Mat</th><th>Runs</th><th>Avg</th></tr></thead>
<tbody><tr><td>10</td><td>512</td><td>51.20</td></tr></tbody>
</table>
</body></html>`

const bowlingHTML = `<html><head><title>Bowling | Statsguru</title></head><body>
<table class="engineTable">
<thead><tr><th>Mat</th><th>Wkts</th></tr></thead>
<tbody><tr><td>10</td><td>31</td></tr><tr><td>4</td><td>9</td></tr></tbody>
</table>
</body></html>`

const noDataHTML = `<html><head><title>Fielding | Statsguru</title></head><body>
<p>No records available to match this query</p>
</body></html>`

func testSpecs() []statsguru.QuerySpec {
	return []statsguru.QuerySpec{
		{Type: "batting", View: "results", Class: statsguru.ClassTest},
		{Type: "bowling", View: "results", Class: statsguru.ClassTest},
		{Type: "fielding", View: "results", Class: statsguru.ClassTest},
	}
}

// serves a fake statsguru keyed on the `type` query parameter
func fakeStatsguru(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.RawQuery, "type=batting"):
			w.Write([]byte(battingHTML))
		case strings.Contains(r.URL.RawQuery, "type=bowling"):
			w.Write([]byte(bowlingHTML))
		default:
			w.Write([]byte(noDataHTML))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testService(baseURL string) *Service {
	return NewService(statsguru.NewClient(statsguru.ClientOptions{
		BaseURL: baseURL,
		Delay:   time.Millisecond,
		Timeout: 5 * time.Second,
	}))
}

func TestExportWritesOnlyCategoriesWithData(t *testing.T) {
	defer telemetry.SetupForTesting(t, "playerstats")()

	server := fakeStatsguru(t)
	outDir := t.TempDir()

	report, err := testService(server.URL).Export(context.Background(), Options{
		PlayerID: 625371,
		OutDir:   outDir,
		Specs:    testSpecs(),
	})
	require.NoError(t, err)
	require.Len(t, report.Exported, 2)
	require.Empty(t, report.Skipped)

	battingCSV := filepath.Join(outDir, "type_batting__view_results__class_1.csv")
	bowlingCSV := filepath.Join(outDir, "type_bowling__view_results__class_1.csv")
	fieldingCSV := filepath.Join(outDir, "type_fielding__view_results__class_1.csv")

	require.FileExists(t, battingCSV)
	require.FileExists(t, bowlingCSV)
	require.NoFileExists(t, fieldingCSV)
	require.NoFileExists(t, filepath.Join(outDir, "failures.txt"))

	require.Equal(t, filepath.Join(outDir, "player_625371_cricinfo_tables.xlsx"), report.WorkbookPath)
	wb, err := excelize.OpenFile(report.WorkbookPath)
	require.NoError(t, err)
	defer wb.Close()
	require.Len(t, wb.GetSheetList(), 2)
}

func TestExportCSVRoundTrip(t *testing.T) {
	defer telemetry.SetupForTesting(t, "playerstats")()

	server := fakeStatsguru(t)
	outDir := t.TempDir()
	service := testService(server.URL)

	report, err := service.Export(context.Background(), Options{
		PlayerID: 1,
		OutDir:   outDir,
		Specs:    testSpecs()[:1],
	})
	require.NoError(t, err)
	require.Len(t, report.Exported, 1)

	f, err := os.Open(report.Exported[0].CSVPath)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + one data row
	require.Equal(t, []string{"_url", "_title", "_type", "_view", "_class", "Mat", "Runs", "Avg"}, records[0])
	require.Equal(t, "51.20", records[1][7])
	require.Equal(t, "Batting | Statsguru", records[1][1])
}

func TestExportIsIdempotent(t *testing.T) {
	defer telemetry.SetupForTesting(t, "playerstats")()

	server := fakeStatsguru(t)
	outDir := t.TempDir()
	service := testService(server.URL)
	opts := Options{PlayerID: 7, OutDir: outDir, Specs: testSpecs()[:1]}

	report, err := service.Export(context.Background(), opts)
	require.NoError(t, err)
	first, err := os.ReadFile(report.Exported[0].CSVPath)
	require.NoError(t, err)

	report, err = service.Export(context.Background(), opts)
	require.NoError(t, err)
	second, err := os.ReadFile(report.Exported[0].CSVPath)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestExportAbortsOnBlock(t *testing.T) {
	defer telemetry.SetupForTesting(t, "playerstats")()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	outDir := t.TempDir()
	report, err := testService(server.URL).Export(context.Background(), Options{
		PlayerID: 625371,
		OutDir:   outDir,
		Specs:    testSpecs(),
	})

	var blocked *statsguru.BlockedError
	require.True(t, errors.As(err, &blocked))
	// the run stops at the first block, later categories are never tried
	require.Equal(t, 1, requests)
	require.Empty(t, report.Exported)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExportSkipsTransientlyFailingCategory(t *testing.T) {
	defer telemetry.SetupForTesting(t, "playerstats")()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "type=bowling") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(battingHTML))
	}))
	defer server.Close()

	outDir := t.TempDir()
	client := statsguru.NewClient(statsguru.ClientOptions{
		BaseURL: server.URL,
		Delay:   time.Millisecond,
		Retries: 1,
	})
	report, err := NewService(client).Export(context.Background(), Options{
		PlayerID: 625371,
		OutDir:   outDir,
		Specs:    testSpecs()[:2],
	})
	require.NoError(t, err)
	require.Len(t, report.Exported, 1)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "type=bowling__view=results__class=1", report.Skipped[0].Key)

	log, err := os.ReadFile(filepath.Join(outDir, "failures.txt"))
	require.NoError(t, err)
	require.Contains(t, string(log), "type=bowling")
}

func TestExportMirrorsTablesToDB(t *testing.T) {
	defer telemetry.SetupForTesting(t, "playerstats")()

	sqlite := testutil.SetupDB(t, db.Schema)

	server := fakeStatsguru(t)
	queries := db.New(sqlite)

	_, err := testService(server.URL).Export(context.Background(), Options{
		PlayerID: 625371,
		OutDir:   t.TempDir(),
		Specs:    testSpecs(),
		Queries:  queries,
	})
	require.NoError(t, err)

	tables, err := queries.ListTables(context.Background(), 625371)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	require.Equal(t, "type=batting__view=results__class=1", tables[0].Key)
	require.EqualValues(t, 1, tables[0].RowCount)
	require.EqualValues(t, 2, tables[1].RowCount)
}
