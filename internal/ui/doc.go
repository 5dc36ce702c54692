// Package ui provides helpers for formatting human-readable console output.
//
// Command lifecycle events and per-repository progress are rendered as short
// lines for operators while detailed telemetry continues to flow through
// structured loggers.
package ui
