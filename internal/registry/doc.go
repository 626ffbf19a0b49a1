// Package registry holds the in-memory model of tracked working copies.
//
// A Registry owns an ordered set of Repos keyed by normalized path. Each Repo
// carries a display name, a sorted duplicate-free tag list, and its remotes
// keyed by name. TagFilter selects Repos for bulk operations.
package registry
