package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger Logger
	disp   hostDisplay
	kbd    Keyboard
}

// New assembles a HAL from an already opened framebuffer.
// A nil logger writes to stdout; a nil keyboard never produces events.
func New(fb Framebuffer, info DisplayInfo, logger Logger, kbd Keyboard) HAL {
	if logger == nil {
		logger = NewLogger(os.Stdout)
	}
	if kbd == nil {
		kbd = NewKeyQueue(0)
	}
	if info.Width == 0 && info.Height == 0 && fb != nil {
		info.Width, info.Height = fb.Width(), fb.Height()
	}
	return &hostHAL{
		logger: logger,
		disp:   hostDisplay{fb: fb, info: info},
		kbd:    kbd,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return h.disp }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }

type hostDisplay struct {
	fb   Framebuffer
	info DisplayInfo
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }
func (d hostDisplay) Info() DisplayInfo        { return d.info }

type hostInput struct {
	kbd Keyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger returns a Logger writing one line per call to w.
func NewLogger(w io.Writer) Logger {
	return &hostLogger{w: w}
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

func logf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}

// KeyQueue is a buffered Keyboard fed by Push.
type KeyQueue struct {
	ch chan KeyEvent
}

// NewKeyQueue returns a queue holding up to n pending events (minimum 1).
func NewKeyQueue(n int) *KeyQueue {
	if n < 1 {
		n = 1
	}
	return &KeyQueue{ch: make(chan KeyEvent, n)}
}

func (k *KeyQueue) Events() <-chan KeyEvent { return k.ch }

// Push enqueues ev, dropping it if the queue is full.
func (k *KeyQueue) Push(ev KeyEvent) bool {
	select {
	case k.ch <- ev:
		return true
	default:
		return false
	}
}
