// Package cli constructs the clocscan command-line interface, wiring the
// Cobra command hierarchy, configuration loader, environment files, and
// structured logging. The root command runs a full inventory; discover lists
// repositories without cloning them.
package cli
