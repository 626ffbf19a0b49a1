package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant          = "~"
	homeVariableSymbolConstant   = "$HOME"
	forwardSlashSeparatorLiteral = "/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander resolves "~" and "$HOME" prefixes in state file and configuration search paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand replaces a leading home prefix with the user's home directory. Paths without a prefix, and every path when
// the home directory cannot be resolved, are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}

	remainder, hasPrefix := trimHomePrefix(candidatePath)
	if !hasPrefix {
		return candidatePath
	}

	resolvedHomeDirectory := expander.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return candidatePath
	}
	if len(remainder) == 0 {
		return resolvedHomeDirectory
	}
	return filepath.Join(resolvedHomeDirectory, remainder)
}

// ExpandAll expands every path in order.
func (expander *HomeExpander) ExpandAll(candidatePaths []string) []string {
	expandedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		expandedPaths = append(expandedPaths, expander.Expand(candidatePath))
	}
	return expandedPaths
}

func trimHomePrefix(candidatePath string) (string, bool) {
	for _, prefix := range []string{tildeSymbolConstant, homeVariableSymbolConstant} {
		if !strings.HasPrefix(candidatePath, prefix) {
			continue
		}
		remainder := strings.TrimPrefix(candidatePath, prefix)
		if len(remainder) == 0 {
			return "", true
		}
		if strings.HasPrefix(remainder, forwardSlashSeparatorLiteral) || strings.HasPrefix(remainder, string(os.PathSeparator)) {
			return remainder[1:], true
		}
	}
	return "", false
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.initializationGuard.Do(func() {
		expander.homeDirectoryProvider = orDefaultProvider(expander.homeDirectoryProvider)
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}

func orDefaultProvider(provider HomeDirectoryProvider) HomeDirectoryProvider {
	if provider == nil {
		return os.UserHomeDir
	}
	return provider
}
