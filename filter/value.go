package filter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/introspect"
)

const timestampLayout = "2006-01-02 15:04:05"

// minTimestamp stands in for the documented invalid zero date.
const minTimestamp = float64(math.MinInt64)

// decodeValue turns a raw dump token into the value bound to a predicate
// variable. The literal NULL decodes to boolean false regardless of the
// declared type; numbers and timestamps bind as float64, the evaluator's
// numeric type.
func decodeValue(raw string, kind introspect.TypeKind) (interface{}, error) {
	if raw == "NULL" {
		return false, nil
	}
	switch kind {
	case introspect.KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Mark(errors.Newf("cannot parse int %q", raw), ErrDecode)
		}
		return float64(n), nil
	case introspect.KindTime:
		ts, err := parseTimestamp(unquote(raw))
		if err != nil {
			return nil, err
		}
		return ts, nil
	case introspect.KindDecimal:
		d, _, err := apd.NewFromString(unquote(raw))
		if err != nil {
			return nil, errors.Mark(errors.Newf("cannot parse decimal %q", raw), ErrDecode)
		}
		f, err := d.Float64()
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "cannot parse decimal %q", raw), ErrDecode)
		}
		return f, nil
	default:
		return unquote(raw), nil
	}
}

// parseTimestamp decodes "YYYY-MM-DD[ HH:MM:SS]" into unix seconds. A bare
// date defaults to midnight; the zero-date sentinel maps to the minimum
// representable timestamp.
func parseTimestamp(s string) (float64, error) {
	if len(s) == len("2006-01-02") {
		s += " 00:00:00"
	}
	if strings.HasPrefix(s, "0000-00-00") {
		return minTimestamp, nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return 0, errors.Mark(errors.Newf("cannot parse timestamp %q", s), ErrDecode)
	}
	return float64(t.Unix()), nil
}

func unquote(s string) string {
	return strings.ReplaceAll(s, "'", "")
}
