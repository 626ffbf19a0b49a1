package registry

import "strings"

const tagGroupSeparatorConstant = ","

// TagFilter selects Repos by tag. Every group must be satisfied and a group is satisfied by any of its tags.
// An empty filter selects everything.
type TagFilter [][]string

// ParseTagFilter builds a filter from repeated flag values; each value forms one group of comma-separated tags.
func ParseTagFilter(values []string) TagFilter {
	filter := TagFilter{}
	for _, value := range values {
		group := []string{}
		for _, tag := range strings.Split(value, tagGroupSeparatorConstant) {
			trimmedTag := strings.TrimSpace(tag)
			if len(trimmedTag) > 0 {
				group = append(group, trimmedTag)
			}
		}
		if len(group) > 0 {
			filter = append(filter, group)
		}
	}
	return filter
}

// IsEmpty reports whether the filter selects everything.
func (filter TagFilter) IsEmpty() bool {
	return len(filter) == 0
}

// Matches reports whether the tags satisfy every group.
func (filter TagFilter) Matches(tags []string) bool {
	presentTags := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		presentTags[tag] = struct{}{}
	}
	for _, group := range filter {
		if !groupMatches(group, presentTags) {
			return false
		}
	}
	return true
}

func groupMatches(group []string, presentTags map[string]struct{}) bool {
	for _, tag := range group {
		if _, present := presentTags[tag]; present {
			return true
		}
	}
	return false
}

// Tags flattens the filter into its distinct tags in order of appearance.
func (filter TagFilter) Tags() []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, group := range filter {
		for _, tag := range group {
			if _, duplicate := seen[tag]; duplicate {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}
