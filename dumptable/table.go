package dumptable

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Name is the unqualified name of a table as it appears in the dump.
type Name string

func (n Name) String() string {
	return string(n)
}

// WorkingFile returns the path of the table's working file inside dir.
func (n Name) WorkingFile(dir string) string {
	return filepath.Join(dir, string(n)+".sql")
}

func (n Name) Compare(o Name) int {
	return strings.Compare(strings.ToLower(string(n)), strings.ToLower(string(o)))
}

func (n Name) Less(o Name) bool {
	return n.Compare(o) < 0
}

// ColumnKey identifies one column across the whole dump as "table.column".
type ColumnKey string

func MakeColumnKey(table Name, column string) ColumnKey {
	return ColumnKey(fmt.Sprintf("%s.%s", table, column))
}

// ParseColumnKey validates a raw "table.column" key.
func ParseColumnKey(s string) (ColumnKey, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", errors.Newf("malformed column key %q", s)
	}
	return ColumnKey(s), nil
}

func (k ColumnKey) Table() Name {
	s := string(k)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return Name(s[:i])
	}
	return Name(s)
}

func (k ColumnKey) Column() string {
	s := string(k)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return ""
}

func (k ColumnKey) String() string {
	return string(k)
}
