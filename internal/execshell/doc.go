// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging, lifecycle observers and
// typed failures. OSCommandRunner is the os/exec backed runner. Every command
// line that leaves this package, whether in logs or in error messages, has URL
// credentials redacted.
package execshell
