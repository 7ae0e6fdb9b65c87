package statsguru

// NormalizedTable is the rectangular union of every raw table seen for
// one category key. Column order is first-seen across all merged header
// sets; rows keep their source order; values stay text so markers like
// "-" and "10*" survive untouched.
type NormalizedTable struct {
	Key     string
	Columns []string
	rows    []map[string]string
}

// Normalize merges raw tables that belong to one category key. Rows from
// a table missing a given column carry an empty value for it. A header
// name appearing twice within a single raw table is a data-integrity
// problem and fails with SchemaError.
func Normalize(key string, tables []RawTable) (*NormalizedTable, error) {
	merged := &NormalizedTable{Key: key}
	seen := map[string]bool{}

	for _, table := range tables {
		inTable := map[string]bool{}
		for _, h := range table.Headers {
			if inTable[h] {
				return nil, &SchemaError{Column: h, Key: key}
			}
			inTable[h] = true
			if !seen[h] {
				seen[h] = true
				merged.Columns = append(merged.Columns, h)
			}
		}

		for _, row := range table.Rows {
			record := make(map[string]string, len(table.Headers))
			for i, h := range table.Headers {
				record[h] = row[i]
			}
			merged.rows = append(merged.rows, record)
		}
	}

	return merged, nil
}

// AddLeadingColumns prepends constant-valued metadata columns (such as
// the source url and page title) ahead of the scraped ones. Pairs are
// [name, value]. A name that collides with an existing column fails with
// SchemaError.
func (t *NormalizedTable) AddLeadingColumns(pairs [][2]string) error {
	existing := map[string]bool{}
	for _, c := range t.Columns {
		existing[c] = true
	}

	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if existing[p[0]] {
			return &SchemaError{Column: p[0], Key: t.Key}
		}
		existing[p[0]] = true
		names = append(names, p[0])
	}

	t.Columns = append(names, t.Columns...)
	for _, row := range t.rows {
		for _, p := range pairs {
			row[p[0]] = p[1]
		}
	}
	return nil
}

// Len reports the number of data rows.
func (t *NormalizedTable) Len() int { return len(t.rows) }

// Records renders the rows as ordered value slices matching Columns.
// Every record has exactly len(Columns) values.
func (t *NormalizedTable) Records() [][]string {
	records := make([][]string, len(t.rows))
	for i, row := range t.rows {
		record := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			record[j] = row[c]
		}
		records[i] = record
	}
	return records
}
