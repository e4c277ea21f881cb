package core

import (
	"regexp"
	"strings"
)

// platformTag matches a trailing annotation such as " (Twitch)".
var platformTag = regexp.MustCompile(`\s*\([^)]*\)$`)

// Normalize turns a display name into the lowercase key used for allow-list checks.
// It trims whitespace, drops leading '@' and a trailing "(platform)" tag, and
// repeats until the key is stable so that Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	key := name
	for i := 0; i < len(name)+1; i++ {
		next := normalizeOnce(key)
		if next == key {
			break
		}
		key = next
	}
	return key
}

func normalizeOnce(name string) string {
	base := strings.TrimSpace(name)
	base = strings.TrimLeft(base, "@")
	base = platformTag.ReplaceAllString(base, "")
	return strings.ToLower(strings.TrimSpace(base))
}

// AllowList is the set of normalized display names permitted to speak.
// An empty list permits everyone.
type AllowList struct {
	names map[string]struct{}
}

// NewAllowList normalizes names into a list. Entries that normalize to "" are dropped.
func NewAllowList(names []string) AllowList {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if key := Normalize(n); key != "" {
			set[key] = struct{}{}
		}
	}
	return AllowList{names: set}
}

// Empty reports whether the list permits everyone.
func (a AllowList) Empty() bool {
	return len(a.names) == 0
}

// Len returns the number of distinct normalized names.
func (a AllowList) Len() int {
	return len(a.names)
}

// Permits reports whether the display name may trigger speech.
func (a AllowList) Permits(name string) bool {
	if a.Empty() {
		return true
	}
	_, ok := a.names[Normalize(name)]
	return ok
}
