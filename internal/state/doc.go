// Package state persists the registry as a TOML document.
//
// FileStorage reads and writes the raw document on disk, Codec converts
// between the document and the in-memory registry, and Store combines both
// into the load and save steps used by every registry operation.
package state
