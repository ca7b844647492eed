// Package tags reads embedded audio metadata so recorded slots can be
// annotated with human titles in plans and the run ledger.
package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Info holds the subset of embedded metadata the recorder surfaces.
type Info struct {
	Title  string
	Artist string
	Album  string
	Track  int
}

// Empty reports whether no metadata field was populated.
func (i Info) Empty() bool {
	return i.Title == "" && i.Artist == "" && i.Album == "" && i.Track == 0
}

// Label returns "Artist - Title", or whichever half is present.
func (i Info) Label() string {
	switch {
	case i.Artist != "" && i.Title != "":
		return i.Artist + " - " + i.Title
	case i.Title != "":
		return i.Title
	default:
		return i.Artist
	}
}

// Read extracts metadata from the audio file at path. Files without a
// recognizable tag block return an error wrapping tag.ErrNoTagsFound.
func Read(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return Info{}, fmt.Errorf("read tags %s: %w", path, err)
	}
	track, _ := meta.Track()
	return Info{
		Title:  strings.TrimSpace(meta.Title()),
		Artist: strings.TrimSpace(meta.Artist()),
		Album:  strings.TrimSpace(meta.Album()),
		Track:  track,
	}, nil
}
