// Package viewer implements the photo carousel and its full-screen overlay.
//
// A Viewer is either Inline or FullScreen at some index. Entering FullScreen
// acquires a session made of a scroll lock and a keyboard subscription; every
// way out of FullScreen (Close, Escape, Teardown) releases it.
package viewer

import (
	"errors"
	"fmt"
)

var (
	ErrNoImages        = errors.New("viewer: no images")
	ErrIndexOutOfRange = errors.New("viewer: index out of range")
)

// Mode is the display state of a viewer.
type Mode int

const (
	Inline Mode = iota
	FullScreen
)

func (m Mode) String() string {
	if m == FullScreen {
		return "full"
	}
	return "inline"
}

// ParseMode reads a mode from a query value; anything but "full" is Inline.
func ParseMode(s string) Mode {
	if s == "full" {
		return FullScreen
	}
	return Inline
}

// Key names understood while full-screen.
const (
	KeyLeft   = "ArrowLeft"
	KeyRight  = "ArrowRight"
	KeyEscape = "Escape"
)

// Frame describes what the viewer currently shows.
type Frame struct {
	Index        int
	Len          int
	URL          string
	Placeholder  bool
	Mode         Mode
	ShowControls bool
}

// Position renders the 1-based position, e.g. "3 / 5".
func (f Frame) Position() string {
	return fmt.Sprintf("%d / %d", f.Index+1, f.Len)
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithScrollLock sets the lock held while full-screen.
func WithScrollLock(l ScrollLock) Option {
	return func(v *Viewer) { v.lock = l }
}

// WithKeyboard sets the key source subscribed to while full-screen.
func WithKeyboard(k Keyboard) Option {
	return func(v *Viewer) { v.keys = k }
}

// Viewer is the state machine for one gallery. It is owned by a single view
// and is not safe for concurrent use.
type Viewer struct {
	images  []string
	index   int
	mode    Mode
	failed  map[int]bool
	lock    ScrollLock
	keys    Keyboard
	session *session
}

// New returns a viewer in Inline(0).
func New(images []string, opts ...Option) (*Viewer, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	v := &Viewer{
		images: append([]string(nil), images...),
		failed: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Restore rebuilds a viewer at index and mode, as when state arrives with a request.
// An out-of-range index falls back to 0.
func Restore(images []string, index int, mode Mode, opts ...Option) (*Viewer, error) {
	v, err := New(images, opts...)
	if err != nil {
		return nil, err
	}
	if index >= 0 && index < len(v.images) {
		v.index = index
	}
	if mode == FullScreen {
		v.Open()
	}
	return v, nil
}

func (v *Viewer) Index() int { return v.index }

func (v *Viewer) Len() int { return len(v.images) }

func (v *Viewer) Mode() Mode { return v.mode }

// IsOpen reports whether the viewer is full-screen.
func (v *Viewer) IsOpen() bool { return v.mode == FullScreen }

// Open enters full-screen at the current index.
func (v *Viewer) Open() {
	if v.mode == FullScreen {
		return
	}
	v.mode = FullScreen
	v.session = acquire(v.lock, v.keys, v.HandleKey)
}

// Close leaves full-screen, keeping the index.
func (v *Viewer) Close() {
	if v.mode != FullScreen {
		return
	}
	v.mode = Inline
	v.session.Release()
	v.session = nil
}

// Teardown releases everything the viewer holds, as when its view unmounts mid-overlay.
func (v *Viewer) Teardown() {
	v.Close()
}

// Next advances cyclically. A single-image viewer does not move.
func (v *Viewer) Next() {
	v.index = (v.index + 1) % len(v.images)
}

// Previous steps back cyclically.
func (v *Viewer) Previous() {
	v.index = (v.index - 1 + len(v.images)) % len(v.images)
}

// Select jumps to i from the full-screen thumbnail strip. Inline it does nothing.
func (v *Viewer) Select(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	if v.mode == FullScreen {
		v.index = i
	}
	return nil
}

// SetIndex jumps to i from the inline dot indicator. Full-screen it does nothing.
func (v *Viewer) SetIndex(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	if v.mode == Inline {
		v.index = i
	}
	return nil
}

// HandleKey is the full-screen key listener. It only receives keys while a
// session is held, and reports whether the key was used.
func (v *Viewer) HandleKey(key string) bool {
	if v.mode != FullScreen {
		return false
	}
	switch key {
	case KeyRight:
		v.Next()
	case KeyLeft:
		v.Previous()
	case KeyEscape:
		v.Close()
	default:
		return false
	}
	return true
}

// MarkFailed records that image i could not be loaded; it is shown as a placeholder.
func (v *Viewer) MarkFailed(i int) {
	if i >= 0 && i < len(v.images) {
		v.failed[i] = true
	}
}

// Frame returns the current view.
func (v *Viewer) Frame() Frame {
	return v.FrameAt(v.index)
}

// FrameAt describes image i as it would be shown in the current mode.
func (v *Viewer) FrameAt(i int) Frame {
	return Frame{
		Index:        i,
		Len:          len(v.images),
		URL:          v.images[i],
		Placeholder:  v.failed[i],
		Mode:         v.mode,
		ShowControls: len(v.images) > 1,
	}
}

func (v *Viewer) check(i int) error {
	if i < 0 || i >= len(v.images) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(v.images))
	}
	return nil
}
