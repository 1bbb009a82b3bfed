package appstate

import (
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/markview/internal/viewport"
)

const (
	actionZoomIn   = "zoom-in"
	actionZoomOut  = "zoom-out"
	actionFit      = "fit"
	actionCopy     = "copy"
	actionPanLeft  = "pan-left"
	actionPanRight = "pan-right"
	actionPanUp    = "pan-up"
	actionPanDown  = "pan-down"
	actionQuit     = "quit"
)

var defaultShortcuts = map[string]shortcutList{
	actionZoomIn:   {{Rune: '+'}, {Rune: '='}},
	actionZoomOut:  {{Rune: '-'}},
	actionFit:      {{Rune: '0'}},
	actionCopy:     {{Rune: 'c'}, {Rune: 'c', Modifiers: key.ModControl}},
	actionPanLeft:  {{Rune: -1, Code: key.CodeLeftArrow}},
	actionPanRight: {{Rune: -1, Code: key.CodeRightArrow}},
	actionPanUp:    {{Rune: -1, Code: key.CodeUpArrow}},
	actionPanDown:  {{Rune: -1, Code: key.CodeDownArrow}},
	actionQuit:     {{Rune: 'q'}, {Rune: -1, Code: key.CodeEscape}},
}

// keymap resolves key presses to action names.
type keymap map[KeyShortcut]string

func newKeymap(bindings map[string]shortcutList) keymap {
	km := keymap{}
	for action, list := range bindings {
		km.bind(action, list)
	}
	return km
}

func (km keymap) bind(action string, s KeyboardShortcuts) {
	for _, sc := range s.KeyboardShortcuts() {
		km[sc] = action
	}
}

// lookup returns the action bound to e. Printable keys match on the
// lower-cased rune ignoring Shift, other keys on their code.
func (km keymap) lookup(e key.Event) (string, bool) {
	if e.Direction == key.DirRelease {
		return "", false
	}
	mods := e.Modifiers &^ key.ModShift
	r := e.Rune
	// Some drivers report Ctrl+letter as the ASCII control character.
	if r > 0 && r < 0x20 && mods&key.ModControl != 0 {
		r += 'a' - 1
	}
	if r > 0 {
		if a, ok := km[KeyShortcut{Rune: unicode.ToLower(r), Modifiers: mods}]; ok {
			return a, true
		}
	}
	a, ok := km[KeyShortcut{Rune: -1, Code: e.Code, Modifiers: mods}]
	return a, ok
}

// wheelDirection returns +1 for a wheel-up notch, -1 for wheel-down and 0
// for anything else.
func wheelDirection(e mouse.Event) int {
	if e.Direction != mouse.DirStep && e.Direction != mouse.DirPress {
		return 0
	}
	switch e.Button {
	case mouse.ButtonWheelUp:
		return 1
	case mouse.ButtonWheelDown:
		return -1
	}
	return 0
}

// deferredEvent carries work from another goroutine onto the event loop.
type deferredEvent struct{ fn func() }

// reloadEvent asks the event loop to reload the config file.
type reloadEvent struct{}

// windowScheduler runs timer callbacks on the event loop by posting them
// to the window queue.
type windowScheduler struct {
	send func(interface{})
}

var _ viewport.Scheduler = windowScheduler{}

func (s windowScheduler) AfterFunc(d time.Duration, f func()) viewport.Timer {
	return time.AfterFunc(d, func() { s.send(deferredEvent{fn: f}) })
}
