// Package inventory clones discovered repositories one at a time, counts their
// lines of code with cloc, removes each clone, and keeps an audit log of the
// commands that ran.
package inventory
