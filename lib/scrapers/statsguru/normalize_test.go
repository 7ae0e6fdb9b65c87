package statsguru

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUnionsHeadersFirstSeen(t *testing.T) {
	merged, err := Normalize("type=batting__view=results__class=none", []RawTable{
		{
			Headers: []string{"Mat", "Runs", "Avg"},
			Rows:    [][]string{{"10", "512", "51.20"}},
		},
		{
			Headers: []string{"Mat", "Runs", "SR"},
			Rows:    [][]string{{"4", "96", "130.43"}},
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Mat", "Runs", "Avg", "SR"}, merged.Columns)
	diff := cmp.Diff([][]string{
		{"10", "512", "51.20", ""},
		{"4", "96", "", "130.43"},
	}, merged.Records())
	require.Empty(t, diff)
}

func TestNormalizeRectangularity(t *testing.T) {
	merged, err := Normalize("k", []RawTable{
		{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}, {"3", "4"}}},
		{Headers: []string{"C"}, Rows: [][]string{{"5"}}},
	})
	require.NoError(t, err)

	require.Equal(t, 3, merged.Len())
	for _, record := range merged.Records() {
		require.Len(t, record, len(merged.Columns))
	}
}

func TestNormalizeDuplicateColumnFails(t *testing.T) {
	_, err := Normalize("k", []RawTable{
		{Headers: []string{"Runs", "Runs"}, Rows: [][]string{{"1", "2"}}},
	})

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, "Runs", schemaErr.Column)
}

func TestNormalizeValuesStayText(t *testing.T) {
	merged, err := Normalize("k", []RawTable{
		{Headers: []string{"Runs", "Avg"}, Rows: [][]string{{"10*", "-"}}},
	})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"10*", "-"}}, merged.Records())
}

func TestAddLeadingColumns(t *testing.T) {
	merged, err := Normalize("k", []RawTable{
		{Headers: []string{"Runs"}, Rows: [][]string{{"99"}, {"12"}}},
	})
	require.NoError(t, err)

	err = merged.AddLeadingColumns([][2]string{
		{"_url", "http://example.com"},
		{"_type", "batting"},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"_url", "_type", "Runs"}, merged.Columns)
	require.Equal(t, [][]string{
		{"http://example.com", "batting", "99"},
		{"http://example.com", "batting", "12"},
	}, merged.Records())
}

func TestAddLeadingColumnsCollisionFails(t *testing.T) {
	merged, err := Normalize("k", []RawTable{
		{Headers: []string{"Runs"}, Rows: [][]string{{"99"}}},
	})
	require.NoError(t, err)

	err = merged.AddLeadingColumns([][2]string{{"Runs", "x"}})
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
}
