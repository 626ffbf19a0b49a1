// Package gitrepo models remote repository locations and talks to git.
//
// RemoteURL parses the URL forms git accepts and derives the directory a
// clone would create. RepositoryManager reads and adds remotes of local
// working copies and performs clones through the shell executor.
package gitrepo
