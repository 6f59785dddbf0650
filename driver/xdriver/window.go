package xdriver

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

// Modifiers is the window's own modifier representation, produced by
// Window.ConvertModifiers.
type Modifiers uint32

// Window receives the events of one registered window. Callbacks run on the
// goroutine that dispatches events.
type Window interface {
	OnWindowSizeChanged(width, height int)
	OnMapChanged(minimized bool)

	// Only called with a non-zero mask.
	ConvertModifiers(m xevent.ModifierMask) Modifiers

	OnMouseMove(x, y int, mods Modifiers)
	OnKeyEvent(x, y int, mods Modifiers, pressed bool, sym xproto.Keysym)
	OnMouseClick(x, y int, mods Modifiers, pressed bool, button int) // button is zero based
	OnMouseEnter(x, y int, mods Modifiers, entered bool)
	OnFocusChanged(in bool)
	OnDeleteWindowRequest(ts xproto.Timestamp)
}

func convertModifiers(w Window, m xevent.ModifierMask) Modifiers {
	if m == 0 {
		return 0
	}
	return w.ConvertModifiers(m)
}
