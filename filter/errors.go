package filter

import "github.com/cockroachdb/errors"

// Marker errors classifying the fatal failure modes of a run. Callers test
// with errors.Is; no class is ever retried.
var (
	// ErrConfig marks malformed definitions, predicate compile failures and
	// references to columns a table does not have. Raised before any output
	// file is created.
	ErrConfig = errors.New("invalid check configuration")

	// ErrStructural marks lookup or tracking definitions naming a table or
	// column the dump's schema does not define. Raised at dependency
	// resolution time, before the first pass.
	ErrStructural = errors.New("unresolvable reference")

	// ErrDecode marks a row value that cannot be parsed as its declared
	// type. Raised mid-pass; partially rewritten working files stay on disk.
	ErrDecode = errors.New("cannot decode value")
)
