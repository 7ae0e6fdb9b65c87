package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeFilename(t *testing.T) {
	require.Equal(t, "type_batting__view_none", SafeFilename("type=batting__view=none"))
	require.Equal(t, "a_b_c", SafeFilename("a  b??c"))
	require.Equal(t, "already_safe-1.csv", SafeFilename("already_safe-1.csv"))
}

func TestSheetName(t *testing.T) {
	require.Equal(t, "batting_innings_1", SheetName("batting/innings:1"))
	require.Equal(t, "sheet", SheetName("  "))

	long := SheetName("type=fielding__view=dismissal_summary__class=3")
	require.LessOrEqual(t, len(long), 31)
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "KS Williamson 89 v India", CollapseWhitespace("  KS Williamson \n\t 89  v   India "))
}
