package indexer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sdtrack/internal/logging"
	"sdtrack/internal/naming"
	"sdtrack/internal/reference"
	"sdtrack/internal/testsupport"
)

type recordingObserver struct {
	assigned []Assignment
	skipped  []string
}

func (r *recordingObserver) Assigned(a Assignment) { r.assigned = append(r.assigned, a) }
func (r *recordingObserver) Skipped(path string)   { r.skipped = append(r.skipped, path) }

func newTestIndexer(copier Copier) (*Indexer, *recordingObserver) {
	obs := &recordingObserver{}
	ix := New(Options{
		Copier:   copier,
		Names:    naming.NewGenerator(naming.Options{}),
		Table:    reference.NewTable(),
		Observer: obs,
	})
	return ix, obs
}

func TestTraverseAssignsSequentialIndicesInNameOrder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "src")
	testsupport.WriteTree(t, root, map[string]string{
		"01 - Intro.mp3":             "intro",
		"02 - Rock/01 - Riff.wav":    "riff",
		"02 - Rock/02 - Solo.MP3":    "solo",
		"02 - Rock/notes.txt":        "ignore me",
		"03 - Outro.wav":             "outro",
		"04 - Empty/readme.md":       "nothing",
		"05 - Bonus/Deep/Hidden.mp3": "hidden",
	})
	target := filepath.Join(t.TempDir(), "sd")

	ix, obs := newTestIndexer(FileCopier{})
	if err := ix.Traverse(root, target); err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	wantSources := []string{
		"01 - Intro.mp3",
		"02 - Rock/01 - Riff.wav",
		"02 - Rock/02 - Solo.MP3",
		"03 - Outro.wav",
		"05 - Bonus/Deep/Hidden.mp3",
	}
	if len(obs.assigned) != len(wantSources) {
		t.Fatalf("assigned %d files, want %d", len(obs.assigned), len(wantSources))
	}
	for i, a := range obs.assigned {
		if a.Index != i+1 {
			t.Fatalf("assignment %d has index %d", i, a.Index)
		}
		if want := filepath.Join(root, wantSources[i]); a.Source != want {
			t.Fatalf("assignment %d source = %q, want %q", i, a.Source, want)
		}
	}

	wantIDs := []string{"SND_SRC_INTRO", "SND_ROCK_RIFF", "SND_ROCK_SOLO", "SND_SRC_OUTRO", "SND_DEEP_HIDDEN"}
	for i, row := range ix.Table().Rows() {
		if row.Identifier != wantIDs[i] {
			t.Fatalf("row %d identifier = %q, want %q", i, row.Identifier, wantIDs[i])
		}
	}

	wantFiles := map[string]string{
		"0001.MP3": "intro",
		"0002.WAV": "riff",
		"0003.MP3": "solo",
		"0004.WAV": "outro",
		"0005.MP3": "hidden",
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if len(entries) != len(wantFiles) {
		t.Fatalf("target holds %d entries, want %d", len(entries), len(wantFiles))
	}
	for name, content := range wantFiles {
		got, err := os.ReadFile(filepath.Join(target, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != content {
			t.Fatalf("%s content = %q, want %q", name, got, content)
		}
	}

	if len(obs.skipped) != 2 {
		t.Fatalf("expected 2 skipped files, got %v", obs.skipped)
	}
	if st := ix.State(); st.NextIndex != 5 || st.FolderCounter != 4 {
		t.Fatalf("unexpected final state %+v", st)
	}
}

func TestTraverseSortsByteWise(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"b.mp3":  "b",
		"B.mp3":  "B",
		"10.mp3": "10",
		"2.mp3":  "2",
		"a.wav":  "a",
	})

	ix, obs := newTestIndexer(PlanCopier{})
	if err := ix.Traverse(root, "/sd"); err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	var got []string
	for _, a := range obs.assigned {
		got = append(got, filepath.Base(a.Source))
	}
	want := []string{"10.mp3", "2.mp3", "B.mp3", "a.wav", "b.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestTraverseIsDeterministic(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"x/01 - A.mp3":  "1",
		"x/01 - A.wav":  "2",
		"y/01 - A.mp3":  "3",
		"01/Track.mp3":  "4",
		"02_/Track.mp3": "5",
	})

	run := func() []reference.Row {
		ix, _ := newTestIndexer(PlanCopier{})
		if err := ix.Traverse(root, "/sd"); err != nil {
			t.Fatalf("Traverse: %v", err)
		}
		return ix.Table().Rows()
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("runs differ:\n%v\n%v", first, second)
	}

	seen := make(map[string]bool)
	for _, row := range first {
		if seen[row.Identifier] {
			t.Fatalf("duplicate identifier %q", row.Identifier)
		}
		seen[row.Identifier] = true
	}
}

func TestTraverseCollisionAndFolderFallback(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"01 - A/B.mp3":    "1",
		"02 - A/B.wav":    "2",
		"03_/Intro.mp3":   "3",
		"04 - /Intro.mp3": "4",
	})

	ix, _ := newTestIndexer(PlanCopier{})
	if err := ix.Traverse(root, "/sd"); err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	want := []string{"SND_A_B", "SND_A_B_1", "SND_DIR3_INTRO", "SND_DIR4_INTRO"}
	rows := ix.Table().Rows()
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if row.Identifier != want[i] {
			t.Fatalf("row %d identifier = %q, want %q", i, row.Identifier, want[i])
		}
		if row.Index != i+1 {
			t.Fatalf("row %d index = %d", i, row.Index)
		}
	}
	if rows[1].Folder != "02 - A" || rows[1].File != "B.wav" {
		t.Fatalf("row keeps original names, got %+v", rows[1])
	}
}

func TestTraverseEmptyDirectoriesStillCountFolders(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"01", "02"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	testsupport.WriteTree(t, root, map[string]string{"03 - /x.mp3": "x"})

	ix, _ := newTestIndexer(PlanCopier{})
	if err := ix.Traverse(root, "/sd"); err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	rows := ix.Table().Rows()
	if len(rows) != 1 || rows[0].Identifier != "SND_DIR3_X" || rows[0].Index != 1 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestTraverseFallbackUsesCounterAfterNestedFolders(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"03_/a/x.mp3": "x",
		"03_/y.mp3":   "y",
		"04_/z.mp3":   "z",
	})

	ix, _ := newTestIndexer(PlanCopier{})
	if err := ix.Traverse(root, "/sd"); err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	want := []string{"SND_A_X", "SND_DIR2_Y", "SND_DIR3_Z"}
	rows := ix.Table().Rows()
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if row.Identifier != want[i] || row.Index != i+1 {
			t.Fatalf("row %d = %+v, want %s at %d", i, row, want[i], i+1)
		}
	}
	if got := ix.State().FolderCounter; got != 3 {
		t.Fatalf("FolderCounter = %d, want 3", got)
	}
}

func TestTraverseLogsDefinitionsAtInfo(t *testing.T) {
	root := filepath.Join(t.TempDir(), "src")
	testsupport.WriteTree(t, root, map[string]string{
		"01 - Intro.mp3": "intro",
		"notes.txt":      "skip",
	})

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	ix := New(Options{Copier: PlanCopier{}, Logger: logger})
	if err := ix.Traverse(root, "/sd"); err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"INFO [indexer]",
		"#define SND_SRC_INTRO\t\t1 /* src/01 - Intro.mp3 */",
		"event_type=track_assigned",
		"skipping invalid file",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestTraverseSkipDoesNotConsumeIndex(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"a.txt":  "",
		"b.mp3":  "b",
		"c.flac": "",
		"d.wav":  "d",
	})

	ix, obs := newTestIndexer(PlanCopier{})
	if err := ix.Traverse(root, "/sd"); err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(obs.assigned) != 2 || obs.assigned[0].Index != 1 || obs.assigned[1].Index != 2 {
		t.Fatalf("unexpected assignments %+v", obs.assigned)
	}
	if obs.assigned[1].Target != filepath.Join("/sd", "0002.WAV") {
		t.Fatalf("unexpected target %q", obs.assigned[1].Target)
	}
	if len(obs.skipped) != 2 {
		t.Fatalf("unexpected skipped %v", obs.skipped)
	}
}

func TestTraverseRejectsNonDirectoryRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "song.mp3")
	testsupport.WriteFile(t, file, 4)

	for _, root := range []string{file, filepath.Join(dir, "missing")} {
		ix, obs := newTestIndexer(FileCopier{})
		err := ix.Traverse(root, filepath.Join(dir, "sd"))
		if !errors.Is(err, ErrNotADirectory) {
			t.Fatalf("Traverse(%q) error = %v, want ErrNotADirectory", root, err)
		}
		if len(obs.assigned) != 0 {
			t.Fatalf("expected no assignments, got %d", len(obs.assigned))
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "sd")); !os.IsNotExist(err) {
		t.Fatalf("target should not be created, stat err = %v", err)
	}
}

type failingCopier struct {
	failAt int
	inner  Copier
}

func (f failingCopier) Copy(src, targetDir string, index int) (string, error) {
	if index == f.failAt {
		return "", &CopyError{Source: src, Err: errors.New("device removed")}
	}
	return f.inner.Copy(src, targetDir, index)
}

func TestTraverseStopsOnCopyFailure(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"1.mp3": "1",
		"2.mp3": "2",
		"3.mp3": "3",
	})
	target := filepath.Join(t.TempDir(), "sd")

	ix, obs := newTestIndexer(failingCopier{failAt: 2, inner: FileCopier{}})
	err := ix.Traverse(root, target)
	if !errors.Is(err, ErrIOFailure) {
		t.Fatalf("expected ErrIOFailure, got %v", err)
	}
	if len(obs.assigned) != 1 {
		t.Fatalf("expected one completed assignment, got %d", len(obs.assigned))
	}
	if _, err := os.Stat(filepath.Join(target, "0001.MP3")); err != nil {
		t.Fatalf("earlier copy should remain: %v", err)
	}
	if ix.Table().Len() != 1 {
		t.Fatalf("table should only hold the completed row, has %d", ix.Table().Len())
	}
}

func TestTraverseIndexOverflow(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{"a.mp3": "a", "b.mp3": "b"})

	ix, obs := newTestIndexer(PlanCopier{})
	ix.state.NextIndex = MaxIndex - 1
	err := ix.Traverse(root, "/sd")
	if !errors.Is(err, ErrIndexOverflow) {
		t.Fatalf("expected ErrIndexOverflow, got %v", err)
	}
	if len(obs.assigned) != 1 || obs.assigned[0].Index != MaxIndex {
		t.Fatalf("unexpected assignments %+v", obs.assigned)
	}
}

func TestCountEligible(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"a.mp3":     "",
		"b.txt":     "",
		"sub/c.WAV": "",
		"sub/d.ogg": "",
	})
	n, err := CountEligible(root)
	if err != nil {
		t.Fatalf("CountEligible: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountEligible = %d, want 2", n)
	}
}
