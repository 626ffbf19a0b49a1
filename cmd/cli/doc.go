// Package cli constructs the gitopolis command-line interface, wiring the
// Cobra command hierarchy, the layered Viper configuration, and zap logging.
// Run executes the CLI against explicit arguments and streams, which keeps the
// binary's entrypoint trivial and lets tests drive complete invocations.
package cli
