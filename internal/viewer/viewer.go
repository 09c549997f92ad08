// Package viewer renders relayed channel bytes in a bordered text pane
// positioned per the launch geometry. It is the visible half of the child
// process; when stdout is not a terminal the child skips it and relays to
// plain stdout instead.
package viewer

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const paneTitle = "sideterm"

// Viewer owns the tview application presenting the channel output.
type Viewer struct {
	app  *tview.Application
	text *tview.TextView

	stopOnce sync.Once
	done     chan struct{}
}

// New constructs a viewer pane at the given screen cell position and size.
func New(x, y, rows, cols int) *Viewer {
	app := tview.NewApplication()

	text := tview.NewTextView().SetScrollable(true).SetWrap(true).ScrollToEnd()
	text.SetBorder(true).SetTitle(paneTitle)
	text.SetChangedFunc(func() {
		app.Draw()
	})
	text.SetRect(x, y, cols, rows)

	v := &Viewer{
		app:  app,
		text: text,
		done: make(chan struct{}),
	}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			v.Stop()
			return nil
		}
		return event
	})

	// fullscreen=false keeps the primitive at the rect set above, which is
	// how the requested window position takes effect.
	app.SetRoot(text, false)
	return v
}

// Run drives the terminal UI until Stop is called. Blocks.
func (v *Viewer) Run() error {
	defer close(v.done)
	return v.app.Run()
}

// Stop tears the pane down. Safe to call from any goroutine, repeatedly.
func (v *Viewer) Stop() {
	v.stopOnce.Do(func() {
		v.app.Stop()
	})
}

// Done reports UI teardown, which also happens when the user quits the pane
// locally with q or Ctrl-C.
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

// Write appends relayed bytes to the pane. TextView serialises concurrent
// writers internally, so the session's relay loop can write directly.
func (v *Viewer) Write(p []byte) (int, error) {
	return v.text.Write(p)
}
