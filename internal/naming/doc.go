// Package naming derives the symbolic identifiers written to the reference
// header alongside each numbered track.
//
// Source trees are usually pre-ordered with numeric prefixes ("01 - Intro.mp3",
// "02_Rock"). Those prefixes drive the copy order but carry no meaning, so
// StripNumber removes them before the folder and file labels are combined into
// an identifier such as SND_ROCK_INTRO. Sanitize folds the result into upper
// case ASCII with single underscores, and Generator guarantees uniqueness within
// a run by suffixing _1, _2, ... onto later duplicates.
package naming
