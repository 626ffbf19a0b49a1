// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with lifecycle reporting, OSCommandRunner
// runs processes through os/exec, and CommandMessageFormatter turns git
// invocations into readable sentences for console logging.
package execshell
