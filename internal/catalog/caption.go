package catalog

import "strings"

// CaptionLimit is the provider's per-message caption ceiling.
const CaptionLimit = 1024

// BuildCaption composes the stored caption for an upload: the effective
// filename on the first line, then one #tag per line from the normalized tag
// input. Captions over the provider limit are truncated with an ellipsis.
func BuildCaption(filename, tagsInput string) string {
	lines := []string{filename}
	for _, tag := range SplitTagInput(tagsInput) {
		lines = append(lines, "#"+tag)
	}
	caption := strings.Join(lines, "\n")
	if len([]rune(caption)) > CaptionLimit {
		caption = string([]rune(caption)[:CaptionLimit-1]) + "…"
	}
	return caption
}
