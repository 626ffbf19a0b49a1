// Package engine implements the registry operations of gitopolis: every command loads the registry, applies one
// mutation or query, and persists the result when it changed.
package engine
