package statement

import (
	"strings"
	"testing"

	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	dump := "-- MySQL dump 10.13\n" +
		"\n" +
		"CREATE TABLE `users` (\n" +
		"  `id` int(11) NOT NULL,\n" +
		"  `name` varchar(255) DEFAULT NULL\n" +
		");\n" +
		"-- Dumping data for table `users`\n" +
		"LOCK TABLES `users` WRITE;\n" +
		"INSERT INTO `users` (`id`, `name`) VALUES (1,'ada');\n" +
		"UNLOCK TABLES;\n" +
		"-- post-data comment\n"

	s := NewScanner(strings.NewReader(dump))

	type expected struct {
		kind  Kind
		table dumptable.Name
		first string
	}
	for _, exp := range []expected{
		{kind: KindGeneric, first: "-- MySQL dump 10.13\n"},
		{kind: KindGeneric, first: "\n"},
		{kind: KindCreateTable, first: "CREATE TABLE `users` (\n  `id` int(11) NOT NULL,\n  `name` varchar(255) DEFAULT NULL\n);\n"},
		{kind: KindTableDataComment, table: "users", first: "-- Dumping data for table `users`\n"},
		{kind: KindGeneric, table: "users", first: "LOCK TABLES `users` WRITE;\n"},
		{kind: KindInsert, table: "users", first: "INSERT INTO `users` (`id`, `name`) VALUES (1,'ada');\n"},
		{kind: KindUnlockTables, table: "users", first: "UNLOCK TABLES;\n"},
		{kind: KindGeneric, table: "", first: "-- post-data comment\n"},
	} {
		require.True(t, s.Scan(), "expected statement %q", exp.first)
		st := s.Statement()
		require.Equal(t, exp.first, st.Raw)
		require.Equal(t, exp.kind, st.Kind)
		require.Equal(t, exp.table, st.Table)
	}
	require.False(t, s.Scan())
	require.NoError(t, s.Err())
}

func TestScannerCommentsNeverSpanLines(t *testing.T) {
	s := NewScanner(strings.NewReader("-- a comment without semicolon\nSELECT 1;\n"))
	require.True(t, s.Scan())
	require.Equal(t, "-- a comment without semicolon\n", s.Statement().Raw)
	require.True(t, s.Scan())
	require.Equal(t, "SELECT 1;\n", s.Statement().Raw)
	require.False(t, s.Scan())
	require.NoError(t, s.Err())
}

func TestScannerNoTrailingNewline(t *testing.T) {
	s := NewScanner(strings.NewReader("SELECT 1;\nSELECT 2;"))
	require.True(t, s.Scan())
	require.Equal(t, "SELECT 1;\n", s.Statement().Raw)
	require.True(t, s.Scan())
	require.Equal(t, "SELECT 2;", s.Statement().Raw)
	require.False(t, s.Scan())
	require.NoError(t, s.Err())
}

func TestInlineMarkerRoundTrip(t *testing.T) {
	line := InlineMarker("/work/users.sql", "users")
	require.Equal(t, "--- INLINE /work/users.sql users\n", line)
	require.True(t, IsInlineMarker(line))

	path, table, err := ParseInlineMarker(line)
	require.NoError(t, err)
	require.Equal(t, "/work/users.sql", path)
	require.Equal(t, dumptable.Name("users"), table)

	_, _, err = ParseInlineMarker("--- INLINE justonefield\n")
	require.Error(t, err)
}

func TestTableFromDataComment(t *testing.T) {
	table, err := TableFromDataComment("-- Dumping data for table `order_items`\n")
	require.NoError(t, err)
	require.Equal(t, dumptable.Name("order_items"), table)

	_, err = TableFromDataComment("-- Dumping data for table order_items\n")
	require.Error(t, err)
}
