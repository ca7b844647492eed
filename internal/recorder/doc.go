// Package recorder coordinates one recording run end to end.
//
// A run validates the source tree, takes the single-recorder lock, empties
// the target, drives the indexer across the source, writes the reference
// header next to the numbered files and records the outcome in the history
// ledger. Dry runs skip every step that touches the target.
//
// The CLI is a thin shell over Recorder.Run; keep policy here so the plan and
// record commands cannot drift apart.
package recorder
