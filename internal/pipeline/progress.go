package pipeline

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"gifsmith/internal/term"
)

// ProgressSink receives discrete progress updates during a conversion. It
// replaces process-wide mutable console state: the orchestrator advances it
// once per frame against an estimated total.
type ProgressSink interface {
	Advance(n int)
	Done()
}

// NopProgress discards all updates. Used in tests and for non-terminal runs.
type NopProgress struct{}

func (NopProgress) Advance(int) {}
func (NopProgress) Done()       {}

// barProgress renders a terminal progress bar.
type barProgress struct {
	bar *progressbar.ProgressBar
}

// NewProgress returns a terminal progress bar sink when stderr is a TTY, and
// a NopProgress otherwise (so batch output stays clean under redirection).
func NewProgress(total int, label string) ProgressSink {
	if !term.IsTerminal(os.Stderr) {
		return NopProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &barProgress{bar: bar}
}

func (b *barProgress) Advance(n int) {
	_ = b.bar.Add(n)
}

func (b *barProgress) Done() {
	_ = b.bar.Finish()
}
