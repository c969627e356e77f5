package catalog

import (
	"regexp"
	"sort"
	"strings"
)

var (
	tagRx   = regexp.MustCompile(`#([A-Za-z0-9_]+)`)
	tokenRx = regexp.MustCompile(`[^a-z0-9_]+`)
)

// ParseTags extracts #word tokens from a caption, lower-cased and
// deduplicated. The result is sorted; tag order carries no meaning.
func ParseTags(caption string) []string {
	tags := []string{}
	seen := map[string]bool{}
	for _, m := range tagRx.FindAllStringSubmatch(caption, -1) {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// SplitTagInput normalizes free-text tag input from an upload request:
// tokens split on whitespace and commas, leading # markers stripped,
// lower-cased, reduced to alnum/underscore, deduplicated and sorted.
func SplitTagInput(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	tags := []string{}
	seen := map[string]bool{}
	for _, f := range fields {
		tag := strings.ToLower(strings.TrimPrefix(f, "#"))
		tag = tokenRx.ReplaceAllString(tag, "")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
