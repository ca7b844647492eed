// Package target prepares the playback medium before a recording run.
//
// Clear empties the target directory so numbering always starts from a fresh
// 0001; it refuses roots, the home directory and any target that overlaps the
// source tree. CheckOverlap applies the overlap rule to runs that do not clear.
// CheckWritable is the preflight access check, and Lock keeps two
// recorders from interleaving writes. Low-level formatting of whole drives is
// left to the operating system tools.
package target
