// Package format renders registry contents for the command line as plain text, tables, YAML, or JSON.
package format
