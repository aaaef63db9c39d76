// Package progress provides progress indicators for long-running scans.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/klauern/modlist/internal/logging"
	"github.com/klauern/modlist/internal/ui"
)

// Bar wraps progressbar with modlist's color and logging settings. The
// underlying bar is created on the first Track call, once the total is
// known.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
	writer  io.Writer
	max     int
}

// Options configures the progress bar behavior.
type Options struct {
	// Description is the prefix text shown before the progress bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Force shows the bar even when Writer is not a terminal.
	Force bool
}

// New creates a progress bar. The bar stays silent unless colors are
// enabled, the writer is a terminal (or Force is set) and debug logging
// is off.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Description == "" {
		opts.Description = "Scanning"
	}

	return &Bar{
		enabled: opts.Force || shouldShowProgress(opts.Writer),
		desc:    opts.Description,
		writer:  opts.Writer,
	}
}

// Enabled reports whether the bar renders anything.
func (b *Bar) Enabled() bool {
	return b.enabled
}

// Track records that done of total steps are complete. Its signature
// matches modules.Options.Progress.
func (b *Bar) Track(done, total int) {
	if !b.enabled || total <= 0 {
		return
	}
	if b.bar == nil {
		b.bar = b.newBar(total)
	} else if total != b.max {
		b.bar.ChangeMax(total)
	}
	b.max = total
	_ = b.bar.Set(done)
}

func (b *Bar) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(b.desc),
		progressbar.OptionSetWriter(b.writer),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(b.writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
}

// Finish completes the progress bar and logs completion.
func (b *Bar) Finish() error {
	if b.bar == nil {
		logging.Debug(fmt.Sprintf("%s completed", b.desc), logging.Count(b.max))
		return nil
	}
	return b.bar.Finish()
}

// Clear removes the progress bar from the terminal.
func (b *Bar) Clear() error {
	if b.bar == nil {
		return nil
	}
	return b.bar.Clear()
}

// shouldShowProgress determines if progress bars should be displayed.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}

	// Progress output would interleave with debug records.
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
