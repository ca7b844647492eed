// Package main hosts the sdtrack CLI entrypoint and command graph.
//
// The Cobra-based command tree records a folder of songs onto a DFPlayer SD
// card, previews the numbering a recording would produce, browses the run
// history and scaffolds configuration. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on output.
//
// Keep this package lean: recording policy lives in internal/recorder and the
// commands here only translate flags into requests and results into text.
package main
