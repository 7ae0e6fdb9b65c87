package playerstats

import "fmt"

// ExportError is a filesystem or workbook write failure. It aborts the
// whole run: once the sink misbehaves no further output can be trusted.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed at %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

type ExportedTable struct {
	Key     string
	CSVPath string
	Sheet   string
	Rows    int
}

type Skip struct {
	Key    string
	URL    string
	Reason string
}

// RunReport summarizes one export run: which categories produced files
// and which were skipped, with the reason for each skip. A run that was
// aborted midway still carries whatever completed before the failure.
type RunReport struct {
	PlayerID     int
	OutDir       string
	WorkbookPath string
	Exported     []ExportedTable
	Skipped      []Skip
}
