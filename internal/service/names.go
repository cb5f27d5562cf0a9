package service

import "strings"

// SplitDisplayName derives first and last names from a provider display name.
// Middle tokens are dropped and a single token is used as both names.
// ok is false when the display name holds no tokens at all.
func SplitDisplayName(displayName string) (firstName, lastName string, ok bool) {
	parts := strings.Fields(displayName)
	if len(parts) == 0 {
		return "", "", false
	}
	return parts[0], parts[len(parts)-1], true
}
