package core

import "strings"

// ResolveIdentity derives the stable composite key for one item at one
// location. It is deterministic and pure: both parts are lower-cased, runs
// of non-alphanumeric characters collapse to a single underscore, and the
// parts are joined with an underscore. The result is truncated to
// MaxIdentityLength bytes.
//
// Two location spellings that sanitize to the same form resolve to the same
// identity. This collapses location aliases on purpose ("Almacén Central"
// and "ALMACÉN  CENTRAL" are the same shelf).
func ResolveIdentity(itemCode, locationName string) string {
	key := sanitizeIdentityPart(itemCode) + "_" + sanitizeIdentityPart(locationName)
	if len(key) > MaxIdentityLength {
		key = key[:MaxIdentityLength]
	}
	return key
}

func sanitizeIdentityPart(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}
