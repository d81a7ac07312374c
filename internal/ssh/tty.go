// Package ssh adapts gliderlabs SSH sessions to tcell so every connection
// can drive its own inventory viewer.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// SessionTty implements tcell.Tty on top of one SSH session.
type SessionTty struct {
	session gossh.Session

	mu       sync.Mutex
	width    int
	height   int
	onResize func()
}

// NewSessionTty wraps s. pty carries the initial window size; window changes
// arriving on winCh update the size and fire tcell's resize callback until
// the channel closes with the session.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	t := &SessionTty{
		session: s,
		width:   pty.Window.Width,
		height:  pty.Window.Height,
	}
	go t.watch(winCh)
	return t
}

func (t *SessionTty) watch(winCh <-chan gossh.Window) {
	for win := range winCh {
		t.resize(win.Width, win.Height)
	}
}

func (t *SessionTty) resize(w, h int) {
	t.mu.Lock()
	t.width, t.height = w, h
	cb := t.onResize
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Read reads keyboard and mouse input from the client.
func (t *SessionTty) Read(b []byte) (int, error) { return t.session.Read(b) }

// Write sends rendered output to the client.
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }

// Close closes the session channel.
func (t *SessionTty) Close() error { return t.session.Close() }

// Start is a no-op; the channel is already open.
func (t *SessionTty) Start() error { return nil }

// Stop is a no-op; the server handler owns the channel.
func (t *SessionTty) Stop() error { return nil }

// Drain is a no-op; SSH writes are not buffered here.
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the latest client window size.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.width, Height: t.height}, nil
}

// NotifyResize registers tcell's resize callback.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onResize = cb
	t.mu.Unlock()
}
