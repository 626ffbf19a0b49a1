package registry

import "strings"

const (
	pathSeparatorsConstant = `/\`
)

// NormalizePath trims surrounding whitespace and strips trailing path separators, keeping a lone separator intact.
func NormalizePath(path string) string {
	normalized := strings.TrimSpace(path)
	for len(normalized) > 1 && strings.ContainsRune(pathSeparatorsConstant, rune(normalized[len(normalized)-1])) {
		normalized = normalized[:len(normalized)-1]
	}
	return normalized
}

// DefaultName returns the final segment of a normalized path.
func DefaultName(path string) string {
	normalized := NormalizePath(path)
	if separatorIndex := strings.LastIndexAny(normalized, pathSeparatorsConstant); separatorIndex != -1 && separatorIndex < len(normalized)-1 {
		return normalized[separatorIndex+1:]
	}
	return normalized
}
