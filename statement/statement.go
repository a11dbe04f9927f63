// Package statement turns raw dump text into ordered statement records,
// each annotated with the table whose data section it falls in.
package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
)

// Kind classifies a dump statement from its leading bytes.
type Kind int

const (
	KindGeneric Kind = iota
	KindInsert
	KindCreateTable
	KindTableDataComment
	KindUnlockTables
	KindInlineMarker
)

const (
	tableDataCommentPrefix = "-- Dumping data for table"
	unlockTablesPrefix     = "UNLOCK TABLES;"
	inlineMarkerPrefix     = "--- INLINE "
	insertPrefix           = "INSERT"
	createTablePrefix      = "CREATE TABLE"
)

var tableDataRE = regexp.MustCompile("-- Dumping data for table `([^`]*)`")

// Statement is one unit of dump text. Raw keeps the exact bytes, trailing
// newline included, so untouched statements survive a rewrite verbatim.
type Statement struct {
	Raw   string
	Table dumptable.Name
	Kind  Kind
}

func (s Statement) IsInsert() bool {
	return s.Kind == KindInsert
}

func DetectKind(raw string) Kind {
	switch {
	case strings.HasPrefix(raw, inlineMarkerPrefix):
		return KindInlineMarker
	case strings.HasPrefix(raw, tableDataCommentPrefix):
		return KindTableDataComment
	case strings.HasPrefix(raw, unlockTablesPrefix):
		return KindUnlockTables
	case strings.HasPrefix(raw, insertPrefix):
		return KindInsert
	case strings.HasPrefix(raw, createTablePrefix):
		return KindCreateTable
	}
	return KindGeneric
}

// TableFromDataComment extracts the table name from a data-section start
// marker comment.
func TableFromDataComment(raw string) (dumptable.Name, error) {
	m := tableDataRE.FindStringSubmatch(raw)
	if m == nil {
		return "", errors.Newf("cannot extract table from %q", strings.TrimSpace(raw))
	}
	return dumptable.Name(m[1]), nil
}

// InlineMarker renders the skeleton line that stands in for a table's
// working file.
func InlineMarker(path string, table dumptable.Name) string {
	return fmt.Sprintf("%s%s %s\n", inlineMarkerPrefix, path, table)
}

// ParseInlineMarker is the inverse of InlineMarker for a single skeleton
// line (with or without its trailing newline).
func ParseInlineMarker(line string) (string, dumptable.Name, error) {
	if !strings.HasPrefix(line, inlineMarkerPrefix) {
		return "", "", errors.Newf("not an inline marker: %q", line)
	}
	rest := strings.TrimSuffix(line[len(inlineMarkerPrefix):], "\n")
	i := strings.LastIndexByte(rest, ' ')
	if i <= 0 || i == len(rest)-1 {
		return "", "", errors.Newf("malformed inline marker: %q", line)
	}
	return rest[:i], dumptable.Name(rest[i+1:]), nil
}

// IsInlineMarker reports whether a skeleton line references a working file.
func IsInlineMarker(line string) bool {
	return strings.HasPrefix(line, inlineMarkerPrefix)
}
