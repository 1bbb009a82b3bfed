//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	backend      *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		owner := &selectionOwner{}
		if err := owner.connect(); err != nil {
			initErr = err
			return
		}
		backend = owner
	})
	return initErr
}

// WriteText takes ownership of CLIPBOARD and serves text to requestors.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return backend.own([]byte(text))
}

// selectionOwner keeps a hidden window that answers selection requests for
// the last written text.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atoms
	mu     sync.RWMutex
	text   []byte
}

type atoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
}

func (s *selectionOwner) connect() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	const mask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{mask}).Check(); err != nil {
		conn.Close()
		return err
	}
	a, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return err
	}
	s.conn = conn
	s.window = window
	s.atoms = a
	go s.serve()
	return nil
}

func internAtoms(conn *xgb.Conn) (atoms, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8"}
	out := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("intern %s: %w", name, err)
		}
		out[i] = reply.Atom
	}
	return atoms{clipboard: out[0], targets: out[1], utf8: out[2], textPlain: out[3]}, nil
}

func (s *selectionOwner) own(text []byte) error {
	s.mu.Lock()
	s.text = append([]byte(nil), text...)
	s.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(s.conn, s.window, s.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (s *selectionOwner) serve() {
	for {
		ev, err := s.conn.WaitForEvent()
		if ev == nil && err == nil {
			return // connection closed
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			s.answer(e)
		case xproto.SelectionClearEvent:
			s.mu.Lock()
			s.text = nil
			s.mu.Unlock()
		}
	}
}

func (s *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	s.mu.RLock()
	text := s.text
	s.mu.RUnlock()

	switch {
	case e.Target == s.atoms.targets:
		targets := []xproto.Atom{s.atoms.targets}
		if len(text) > 0 {
			targets = append(targets, s.atoms.utf8, xproto.AtomString, s.atoms.textPlain)
		}
		xproto.ChangeProperty(s.conn, xproto.PropModeReplace, e.Requestor, property, xproto.AtomAtom, 32,
			uint32(len(targets)), atomsToBytes(targets))
	case len(text) > 0 && (e.Target == s.atoms.utf8 || e.Target == xproto.AtomString || e.Target == s.atoms.textPlain):
		xproto.ChangeProperty(s.conn, xproto.PropModeReplace, e.Requestor, property, s.atoms.utf8, 8,
			uint32(len(text)), text)
	default:
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(s.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

func atomsToBytes(list []xproto.Atom) []byte {
	buf := make([]byte, len(list)*4)
	for i, a := range list {
		xgb.Put32(buf[i*4:], uint32(a))
	}
	return buf
}
