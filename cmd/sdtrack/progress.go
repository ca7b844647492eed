package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"sdtrack/internal/indexer"
	"sdtrack/internal/reference"
)

// consoleProgress reports a run on stdout: one #define line per copied file,
// with a progress bar kept below the lines on a terminal.
type consoleProgress struct {
	out         io.Writer
	interactive bool
	bar         *progressbar.ProgressBar
}

func newConsoleProgress(out io.Writer) *consoleProgress {
	return &consoleProgress{out: out, interactive: isInteractive(out)}
}

func (p *consoleProgress) Started(eligible int) {
	if !p.interactive || eligible == 0 {
		return
	}
	p.bar = progressbar.NewOptions(eligible,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("copying"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *consoleProgress) Assigned(a indexer.Assignment) {
	if p.bar == nil {
		fmt.Fprintln(p.out, reference.Line(a.Row))
		return
	}
	_ = p.bar.Clear()
	fmt.Fprintln(p.out, reference.Line(a.Row))
	p.bar.Describe(a.Identifier)
	_ = p.bar.Add(1)
}

// Skipped is a no-op; skipped files are reported by the indexer's log.
func (p *consoleProgress) Skipped(string) {}

func (p *consoleProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
