// Package history persists a ledger of recorder runs in SQLite.
//
// Every run gets a row keyed by its UUID with source, target, timing and
// outcome, plus one row per track holding the assigned index, identifier,
// original path, slot name and (when readable) the embedded tag title. The
// ledger answers "which card slot holds which song" long after the original
// source tree has moved on.
package history
