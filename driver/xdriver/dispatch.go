package xdriver

import (
	"errors"
	"fmt"
	"log"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/winreg"
	"github.com/jmigpin/xconn/driver/xdriver/wmprotocols"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

var ErrUnexpectedDestroy = errors.New("destroy notify for a window not marked destroyed")

// RecordSource gives the records already received. Poll returns nil when
// there are none.
type RecordSource interface {
	Poll() ([]byte, error)
}

// Keyboard resolves key events. Implemented by *xkb.Tracker.
type Keyboard interface {
	SymbolFor(xproto.Keycode) xproto.Keysym
	EffectiveModifiers(xproto.Keycode) xevent.ModifierMask
	HandleEvent(xevent.XkbEvent) (bool, error)
}

//----------

// Dispatcher decodes records and calls the registered windows. It is used
// from a single goroutine; only the registry is shared.
type Dispatcher struct {
	Decoder   xevent.Decoder
	Registry  *winreg.Registry[Window]
	Keyboard  Keyboard // optional
	Atoms     *wmprotocols.Atoms
	Formatter *xevent.Formatter
	Logger    *log.Logger

	Debug         bool
	DebugMotion   bool
	StrictDestroy bool

	// last size seen in a configure notify
	width, height uint16
	// some window has focus
	focused bool
}

// Dispatch handles all available records without blocking. It returns true
// when the last registered window was removed; remaining records are left
// in the source.
func (d *Dispatcher) Dispatch(src RecordSource) (bool, error) {
	for {
		rec, err := src.Poll()
		if err != nil {
			return false, err
		}
		if rec == nil {
			return false, nil
		}
		done, err := d.dispatch(rec)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
	}
}

func (d *Dispatcher) dispatch(rec []byte) (bool, error) {
	ev, err := d.Decoder.Decode(rec)
	if err != nil {
		var pe *xevent.ProtocolError
		if errors.As(err, &pe) {
			d.logf("received %v", pe)
			return false, nil
		}
		d.logf("decode: %v", err)
		return false, nil
	}
	d.debugEvent(ev)

	switch t := ev.(type) {
	case *xevent.ButtonEvent:
		w, err := d.lookup(t.Event)
		if err != nil || w == nil {
			return false, err
		}
		mods := convertModifiers(w, xevent.ModifierMask(t.State))
		w.OnMouseClick(int(t.EventX), int(t.EventY), mods, t.Pressed(), int(t.Detail)-1)
	case *xevent.MotionEvent:
		w, err := d.lookup(t.Event)
		if err != nil || w == nil {
			return false, err
		}
		mods := convertModifiers(w, xevent.ModifierMask(t.State))
		w.OnMouseMove(int(t.EventX), int(t.EventY), mods)
	case *xevent.KeyEvent:
		sym, m := d.keyLookup(t)
		w, err := d.lookup(t.Event)
		if err != nil || w == nil {
			return false, err
		}
		mods := convertModifiers(w, m)
		w.OnKeyEvent(int(t.EventX), int(t.EventY), mods, t.Pressed(), sym)
	case *xevent.CrossingEvent:
		if w, ok := d.Registry.Get(t.Event); ok {
			mods := convertModifiers(w, xevent.ModifierMask(t.State))
			w.OnMouseEnter(int(t.EventX), int(t.EventY), mods, t.Entered())
		}
	case *xevent.FocusEvent:
		d.focused = t.In()
		if w, ok := d.Registry.Get(t.Window); ok {
			w.OnFocusChanged(t.In())
		}
	case *xevent.MapNotifyEvent:
		if w, ok := d.Registry.Get(t.Window); ok {
			w.OnMapChanged(false)
		}
	case *xevent.UnmapNotifyEvent:
		// can be the result of the window being destroyed
		if w, ok := d.Registry.Get(t.Window); ok {
			w.OnMapChanged(true)
		}
	case *xevent.ConfigureNotifyEvent:
		return false, d.configureNotify(t)
	case *xevent.ClientMessageEvent:
		if d.Atoms == nil {
			break
		}
		if ts, ok := d.Atoms.DeleteWindow(t); ok {
			if w, ok := d.Registry.Get(t.Window); ok {
				w.OnDeleteWindowRequest(ts)
			}
		}
	case *xevent.DestroyNotifyEvent:
		return d.destroyNotify(t)
	case *xevent.MappingNotifyEvent:
		// keyboard remaps are handled with the xkb map notify
	case xevent.XkbEvent:
		return false, d.xkbEvent(t)
	}
	return false, nil
}

//----------

// lookup fails if the handle was never registered. A destroyed window
// returns nil.
func (d *Dispatcher) lookup(h xproto.Window) (Window, error) {
	return d.Registry.Lookup(h)
}

func (d *Dispatcher) keyLookup(ev *xevent.KeyEvent) (xproto.Keysym, xevent.ModifierMask) {
	if d.Keyboard == nil {
		return 0, xevent.ModifierMask(ev.State)
	}
	kc := ev.Keycode()
	return d.Keyboard.SymbolFor(kc), d.Keyboard.EffectiveModifiers(kc)
}

func (d *Dispatcher) configureNotify(ev *xevent.ConfigureNotifyEvent) error {
	// Only the last size is kept, so an identical resize of another window
	// right after is not reported.
	wch := ev.Width > 0 && ev.Width != d.width
	hch := ev.Height > 0 && ev.Height != d.height
	if !wch && !hch {
		return nil
	}
	w, err := d.lookup(ev.Window)
	if err != nil {
		return err
	}
	if w != nil {
		w.OnWindowSizeChanged(int(ev.Width), int(ev.Height))
	}
	d.width, d.height = ev.Width, ev.Height
	return nil
}

func (d *Dispatcher) destroyNotify(ev *xevent.DestroyNotifyEvent) (bool, error) {
	if !d.Registry.IsDestroyed(ev.Window) {
		if _, err := d.Registry.Lookup(ev.Window); err != nil {
			// not ours (or already removed)
			d.debugf("destroy notify for unknown window %d", ev.Window)
			return false, nil
		}
		if d.StrictDestroy {
			return false, fmt.Errorf("%w: %d", ErrUnexpectedDestroy, ev.Window)
		}
		d.debugf("destroy notify for window %d not marked destroyed", ev.Window)
	}
	return d.Registry.Remove(ev.Window), nil
}

func (d *Dispatcher) xkbEvent(ev xevent.XkbEvent) error {
	if d.Keyboard == nil {
		return nil
	}
	ok, err := d.Keyboard.HandleEvent(ev)
	if err != nil {
		return err
	}
	if !ok {
		d.xkbDebugf("xkb event for other device: %d", ev.Xkb().DeviceID)
	}
	return nil
}

//----------

func (d *Dispatcher) logf(f string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(f, args...)
	}
}

func (d *Dispatcher) debugf(f string, args ...any) {
	if d.Debug {
		d.logf(f, args...)
	}
}

// xkb events arrive for any keyboard activity; only log while focused.
func (d *Dispatcher) xkbDebugf(f string, args ...any) {
	if d.focused {
		d.debugf(f, args...)
	}
}

func (d *Dispatcher) debugEvent(ev xevent.Event) {
	if !d.Debug && !d.DebugMotion {
		return
	}
	switch ev.(type) {
	case *xevent.MotionEvent:
		if !d.DebugMotion {
			return
		}
	case xevent.XkbEvent:
		if !d.focused || !d.Debug {
			return
		}
	default:
		if !d.Debug {
			return
		}
	}
	f := d.Formatter
	if f == nil {
		f = &xevent.Formatter{}
	}
	d.logf("event: %v", f.Format(ev))
}
