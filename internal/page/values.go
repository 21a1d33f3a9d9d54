package page

import (
	"time"

	"github.com/spf13/cast"
)

// Terms coerces a loosely typed frontmatter value into a list of terms.
//
// A string yields itself; a list yields each element coerced to a string. Empty
// terms, false and elements that cannot be represented as strings are dropped,
// so a falsy value never produces a term. Whitespace-only terms are kept.
func Terms(v any) []string {
	switch vv := v.(type) {
	case nil:
		return nil
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []string:
		return nonEmpty(vv)
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if item == nil {
				continue
			}
			if b, ok := item.(bool); ok && !b {
				continue
			}
			s, err := cast.ToStringE(item)
			if err != nil || s == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Time coerces a frontmatter date (time.Time, RFC 3339 or date-only string,
// unix seconds) into a time. ok is false when the value is absent or unparseable.
func Time(v any) (t time.Time, ok bool) {
	if v == nil {
		return time.Time{}, false
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// IsUnset reports whether a frontmatter value counts as absent for fill-missing
// merges: nil, the empty string, or an empty list.
func IsUnset(v any) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case string:
		return vv == ""
	case []any:
		return len(vv) == 0
	case []string:
		return len(vv) == 0
	default:
		return false
	}
}
