// Package ui provides helpers for human-readable console output.
//
// ConsoleCommandEventLogger observes shell command execution and reports each
// git invocation as a sentence, used when logging runs in console format.
package ui
