// Package indexer walks a source tree in a fixed order and assigns every
// eligible audio file the next global track index.
//
// Children of each directory are visited in byte-wise name order, depth
// first, with files and subdirectories interleaved by that order. Each WAV or
// MP3 file consumes exactly one index (1, 2, 3, ...), is handed to a Copier
// that writes it to the flat target as NNNN.EXT, and gets a row in the
// reference table. Other files are reported and skipped without consuming an
// index.
//
// An Indexer owns its counters for one run and must be used from a single
// goroutine; the naming contract depends on that strict order.
package indexer
