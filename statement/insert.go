package statement

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
)

const (
	insertIntoPrefix = "INSERT INTO `"
	columnsOpen      = "` ("
	valuesOpen       = ") VALUES ("
	valuesClose      = ");"
)

// Insert is the lexed form of one INSERT statement: the owning table plus
// the raw column-list and VALUES-tuple text between the statement's fixed
// delimiters.
type Insert struct {
	Table       dumptable.Name
	ColumnsPart string
	ValuesPart  string
}

// ParseInsert lexes an "INSERT INTO `t` (`a`, `b`) VALUES (...);" statement.
func ParseInsert(raw string) (Insert, error) {
	if !strings.HasPrefix(raw, insertIntoPrefix) {
		return Insert{}, errors.Newf("not an insert statement: %q", truncate(raw))
	}
	rest := raw[len(insertIntoPrefix):]
	i := strings.Index(rest, columnsOpen)
	if i < 0 {
		return Insert{}, errors.Newf("insert statement without column list: %q", truncate(raw))
	}
	table := rest[:i]
	rest = rest[i+len(columnsOpen):]
	i = strings.Index(rest, valuesOpen)
	if i < 0 {
		return Insert{}, errors.Newf("insert statement without VALUES: %q", truncate(raw))
	}
	columnsPart := rest[:i]
	rest = rest[i+len(valuesOpen):]
	i = strings.LastIndex(rest, valuesClose)
	if i < 0 {
		return Insert{}, errors.Newf("unterminated insert statement: %q", truncate(raw))
	}
	return Insert{
		Table:       dumptable.Name(table),
		ColumnsPart: columnsPart,
		ValuesPart:  rest[:i],
	}, nil
}

// Columns returns the backtick-quoted column names in declaration order.
func (ins Insert) Columns() []string {
	var cols []string
	s := ins.ColumnsPart
	for {
		open := strings.IndexByte(s, '`')
		if open < 0 {
			return cols
		}
		s = s[open+1:]
		end := strings.IndexByte(s, '`')
		if end < 0 {
			return cols
		}
		cols = append(cols, s[:end])
		s = s[end+1:]
	}
}

// Values tokenizes the VALUES tuple into raw value tokens. Quoted tokens
// keep their surrounding single quotes; backslash escapes and doubled
// quotes inside them are skipped over, not interpreted.
func (ins Insert) Values() ([]string, error) {
	var out []string
	s := ins.ValuesPart
	i, n := 0, len(s)
	for i < n {
		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}
		start := i
		if s[i] == '\'' {
			end, err := scanQuoted(s, i)
			if err != nil {
				return nil, err
			}
			i = end
			out = append(out, s[start:i])
		} else {
			for i < n && s[i] != ',' {
				i++
			}
			out = append(out, strings.TrimRight(s[start:i], " \t"))
		}
		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i < n {
			if s[i] != ',' {
				return nil, errors.Newf("unexpected %q in values tuple at offset %d", s[i], i)
			}
			i++
		}
	}
	return out, nil
}

// scanQuoted returns the offset just past the single-quoted token that
// starts at s[start].
func scanQuoted(s string, start int) (int, error) {
	i := start + 1
	n := len(s)
	for i < n {
		switch s[i] {
		case '\\':
			i += 2
		case '\'':
			if i+1 < n && s[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, errors.Newf("unterminated quoted value at offset %d", start)
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
