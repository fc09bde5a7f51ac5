package views

import (
	"strings"
)

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "tag"
	if active {
		base += " tag-active"
	}
	return base
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
