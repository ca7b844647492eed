package naming

import (
	"strconv"
	"strings"
)

const (
	// DefaultPrefix starts every generated identifier.
	DefaultPrefix = "SND_"
	// DefaultFolderPrefix labels folders whose names are purely ordering characters.
	DefaultFolderPrefix = "DIR"
)

// Options configures identifier composition.
type Options struct {
	Prefix       string
	FolderPrefix string
}

// Generator composes identifiers and keeps them unique for the lifetime of a
// single run. It is not safe for concurrent use.
type Generator struct {
	prefix       string
	folderPrefix string
	used         map[string]struct{}
}

// NewGenerator returns a generator with an empty uniqueness set. Empty option
// fields fall back to DefaultPrefix and DefaultFolderPrefix.
func NewGenerator(opts Options) *Generator {
	prefix := opts.Prefix
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	folderPrefix := opts.FolderPrefix
	if strings.TrimSpace(folderPrefix) == "" {
		folderPrefix = DefaultFolderPrefix
	}
	return &Generator{
		prefix:       prefix,
		folderPrefix: folderPrefix,
		used:         make(map[string]struct{}),
	}
}

// FolderLabel returns the stripped folder name, or the fallback label built
// from folderCounter when nothing meaningful remains.
func (g *Generator) FolderLabel(folder string, folderCounter int) string {
	label := StripNumber(folder)
	if strings.TrimSpace(label) == "" {
		return g.folderPrefix + strconv.Itoa(folderCounter)
	}
	return label
}

// Base returns the identifier for a file before collision handling.
func (g *Generator) Base(folder, file string, folderCounter int) string {
	id := Sanitize(g.prefix + g.FolderLabel(folder, folderCounter) + "_" + StripNumber(file))
	if id == "" {
		id = Sanitize(g.folderPrefix + strconv.Itoa(folderCounter))
	}
	return id
}

// Derive returns a unique identifier for file inside folder and claims it.
// A duplicate gets the first free _1, _2, ... suffix; earlier identifiers
// are never changed.
func (g *Generator) Derive(folder, file string, folderCounter int) string {
	base := g.Base(folder, file, folderCounter)
	id := base
	for n := 1; g.Taken(id); n++ {
		id = base + "_" + strconv.Itoa(n)
	}
	g.used[id] = struct{}{}
	return id
}

// Taken reports whether id has already been issued in this run.
func (g *Generator) Taken(id string) bool {
	_, ok := g.used[id]
	return ok
}
