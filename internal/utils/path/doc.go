// Package pathutils normalizes user-supplied file system paths.
package pathutils
