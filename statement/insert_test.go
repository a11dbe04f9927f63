package statement

import (
	"testing"

	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/stretchr/testify/require"
)

func TestParseInsert(t *testing.T) {
	raw := "INSERT INTO `users` (`id`, `name`, `active`) VALUES (1,'ada',1);\n"
	ins, err := ParseInsert(raw)
	require.NoError(t, err)
	require.Equal(t, dumptable.Name("users"), ins.Table)
	require.Equal(t, []string{"id", "name", "active"}, ins.Columns())

	values, err := ins.Values()
	require.NoError(t, err)
	require.Equal(t, []string{"1", "'ada'", "1"}, values)
}

func TestParseInsertErrors(t *testing.T) {
	for _, raw := range []string{
		"SELECT 1;\n",
		"INSERT INTO `users` VALUES (1);\n",
		"INSERT INTO `users` (`id`) VALUES (1\n",
	} {
		_, err := ParseInsert(raw)
		require.Error(t, err, "input %q", raw)
	}
}

func TestInsertValues(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		values   string
		expected []string
	}{
		{
			desc:     "plain",
			values:   "1,'ada',NULL",
			expected: []string{"1", "'ada'", "NULL"},
		},
		{
			desc:     "spacing",
			values:   "1, 'ada' , NULL",
			expected: []string{"1", "'ada'", "NULL"},
		},
		{
			desc:     "comma inside quotes",
			values:   "'a,b',2",
			expected: []string{"'a,b'", "2"},
		},
		{
			desc:     "escaped quote",
			values:   `'it\'s',3`,
			expected: []string{`'it\'s'`, "3"},
		},
		{
			desc:     "doubled quote",
			values:   "'it''s',3",
			expected: []string{"'it''s'", "3"},
		},
		{
			desc:     "escaped backslash at end of token",
			values:   `'trailing\\',4`,
			expected: []string{`'trailing\\'`, "4"},
		},
		{
			desc:     "empty string",
			values:   "'',5",
			expected: []string{"''", "5"},
		},
		{
			desc:     "dates and negatives",
			values:   "'2024-01-02 03:04:05',-7",
			expected: []string{"'2024-01-02 03:04:05'", "-7"},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			ins := Insert{ValuesPart: tc.values}
			got, err := ins.Values()
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestInsertValuesUnterminatedQuote(t *testing.T) {
	ins := Insert{ValuesPart: "'oops,1"}
	_, err := ins.Values()
	require.Error(t, err)
}
