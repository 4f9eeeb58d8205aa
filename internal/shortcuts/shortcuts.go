// Package shortcuts maps keyboard chords reported by a client to commands
package shortcuts

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrChordConflict is returned when two bindings share a chord
var ErrChordConflict = errors.New("shortcut chord already bound")

// Binding ties a chord to an action
type Binding struct {
	Key         string `json:"key"`
	Ctrl        bool   `json:"ctrl,omitempty"`
	Alt         bool   `json:"alt,omitempty"`
	Shift       bool   `json:"shift,omitempty"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Action      func() `json:"-"`
}

// Chord returns the normalised chord, e.g. "ctrl+shift+e"
func (b Binding) Chord() string {
	return chord(b.Key, b.Ctrl, b.Alt, b.Shift)
}

func chord(key string, ctrl, alt, shift bool) string {
	var parts []string
	if ctrl {
		parts = append(parts, "ctrl")
	}
	if alt {
		parts = append(parts, "alt")
	}
	if shift {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, strings.ToLower(key)), "+")
}

// KeyEvent is a key press as reported by the client. Meta is treated as Ctrl.
type KeyEvent struct {
	Key             string `json:"key"`
	Ctrl            bool   `json:"ctrl"`
	Alt             bool   `json:"alt"`
	Shift           bool   `json:"shift"`
	Meta            bool   `json:"meta"`
	Target          string `json:"target"`
	ContentEditable bool   `json:"contentEditable"`
}

// InTextField reports whether the event was typed into a text-entry control
func (e KeyEvent) InTextField() bool {
	if e.ContentEditable {
		return true
	}
	switch strings.ToLower(e.Target) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

func (e KeyEvent) chord() string {
	return chord(e.Key, e.Ctrl || e.Meta, e.Alt, e.Shift)
}

// Registry is a conflict-free chord table
type Registry struct {
	bindings []Binding
	byChord  map[string]int
	enabled  atomic.Bool
}

// NewRegistry validates bindings and returns an enabled registry
func NewRegistry(bindings []Binding) (*Registry, error) {
	r := &Registry{
		bindings: make([]Binding, 0, len(bindings)),
		byChord:  make(map[string]int, len(bindings)),
	}

	for _, b := range bindings {
		if strings.TrimSpace(b.Key) == "" {
			return nil, fmt.Errorf("shortcut %q has no key", b.Description)
		}
		c := b.Chord()
		if i, exists := r.byChord[c]; exists {
			return nil, fmt.Errorf("%w: %s (%q and %q)", ErrChordConflict, c, r.bindings[i].Description, b.Description)
		}
		r.byChord[c] = len(r.bindings)
		r.bindings = append(r.bindings, b)
	}

	r.enabled.Store(true)
	return r, nil
}

// SetEnabled turns dispatching on or off
func (r *Registry) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Enabled reports whether events are dispatched
func (r *Registry) Enabled() bool {
	return r.enabled.Load()
}

// Bindings returns the table in registration order
func (r *Registry) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}

// Dispatch runs the action bound to the event's chord. It reports whether an
// action ran. Events typed into text fields are ignored.
func (r *Registry) Dispatch(e KeyEvent) bool {
	if !r.Enabled() || e.InTextField() || e.Key == "" {
		return false
	}

	i, ok := r.byChord[e.chord()]
	if !ok {
		return false
	}
	if action := r.bindings[i].Action; action != nil {
		action()
	}
	return true
}
