package xevent

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/davecgh/go-spew/spew"
)

var codeNames = [...]string{
	0:                       "Error",
	1:                       "Reply",
	xproto.KeyPress:         "KeyPress",
	xproto.KeyRelease:       "KeyRelease",
	xproto.ButtonPress:      "ButtonPress",
	xproto.ButtonRelease:    "ButtonRelease",
	xproto.MotionNotify:     "MotionNotify",
	xproto.EnterNotify:      "EnterNotify",
	xproto.LeaveNotify:      "LeaveNotify",
	xproto.FocusIn:          "FocusIn",
	xproto.FocusOut:         "FocusOut",
	xproto.KeymapNotify:     "KeymapNotify",
	xproto.Expose:           "Expose",
	xproto.GraphicsExposure: "GraphicsExposure",
	xproto.NoExposure:       "NoExposure",
	xproto.VisibilityNotify: "VisibilityNotify",
	xproto.CreateNotify:     "CreateNotify",
	xproto.DestroyNotify:    "DestroyNotify",
	xproto.UnmapNotify:      "UnmapNotify",
	xproto.MapNotify:        "MapNotify",
	xproto.MapRequest:       "MapRequest",
	xproto.ReparentNotify:   "ReparentNotify",
	xproto.ConfigureNotify:  "ConfigureNotify",
	xproto.ConfigureRequest: "ConfigureRequest",
	xproto.GravityNotify:    "GravityNotify",
	xproto.ResizeRequest:    "ResizeRequest",
	xproto.CirculateNotify:  "CirculateNotify",
	xproto.CirculateRequest: "CirculateRequest",
	xproto.PropertyNotify:   "PropertyNotify",
	xproto.SelectionClear:   "SelectionClear",
	xproto.SelectionRequest: "SelectionRequest",
	xproto.SelectionNotify:  "SelectionNotify",
	xproto.ColormapNotify:   "ColormapNotify",
	xproto.ClientMessage:    "ClientMessage",
	xproto.MappingNotify:    "MappingNotify",
	GeGeneric:               "GeGeneric",
}

// CodeName names a core response type. Extension codes are not known here.
func CodeName(code uint8) string {
	code &^= syntheticBit
	if int(code) < len(codeNames) && codeNames[code] != "" {
		return codeNames[code]
	}
	return fmt.Sprintf("Unknown(%d)", code)
}

//----------

type AtomNamer interface {
	AtomName(xproto.Atom) string
}

// Formatter renders events for diagnostics. Client messages of type
// Protocols are rendered as the embedded protocol atom and timestamp.
type Formatter struct {
	Names     AtomNamer // optional
	Protocols xproto.Atom
}

func (f *Formatter) Format(ev Event) string {
	name := CodeName(ev.Code())
	if xe, ok := ev.(XkbEvent); ok {
		name = "Xkb" + XkbTypeName(xe.Xkb().XkbType)
	}
	body := f.body(ev)
	if sy, ok := ev.(interface{ IsSynthetic() bool }); ok && sy.IsSynthetic() {
		name += "(synthetic)"
	}
	return name + " " + body
}

func (f *Formatter) body(ev Event) string {
	switch t := ev.(type) {
	case *KeyEvent:
		return fmt.Sprintf("{win:%d, keycode:%d, x:%d, y:%d, state:%v, time:%d}",
			t.Event, t.Detail, t.EventX, t.EventY, ModifierMask(t.State), t.Time)
	case *ButtonEvent:
		s := ""
		switch t.Detail {
		case 4:
			s = " (wheel up)"
		case 5:
			s = " (wheel down)"
		}
		return fmt.Sprintf("{win:%d, button:%d%s, x:%d, y:%d, state:%v, time:%d}",
			t.Event, t.Detail, s, t.EventX, t.EventY, ModifierMask(t.State), t.Time)
	case *MotionEvent:
		return fmt.Sprintf("{win:%d, x:%d, y:%d, state:%v}",
			t.Event, t.EventX, t.EventY, ModifierMask(t.State))
	case *CrossingEvent:
		return fmt.Sprintf("{win:%d, x:%d, y:%d, state:%v, mode:%d}",
			t.Event, t.EventX, t.EventY, ModifierMask(t.State), t.Mode)
	case *FocusEvent:
		return fmt.Sprintf("{win:%d, detail:%d, mode:%d}", t.Window, t.Detail, t.Mode)
	case *ConfigureNotifyEvent:
		return fmt.Sprintf("{win:%d, x:%d, y:%d, w:%d, h:%d}",
			t.Window, t.X, t.Y, t.Width, t.Height)
	case *DestroyNotifyEvent:
		return fmt.Sprintf("{win:%d}", t.Window)
	case *MapNotifyEvent:
		return fmt.Sprintf("{win:%d}", t.Window)
	case *UnmapNotifyEvent:
		return fmt.Sprintf("{win:%d}", t.Window)
	case *ExposeEvent:
		return fmt.Sprintf("{win:%d, x:%d, y:%d, w:%d, h:%d, count:%d}",
			t.Window, t.X, t.Y, t.Width, t.Height, t.Count)
	case *PropertyNotifyEvent:
		return fmt.Sprintf("{win:%d, atom:%s, state:%d}", t.Window, f.atom(t.Atom), t.State)
	case *ClientMessageEvent:
		if t.Format == 32 && f.Protocols != 0 && t.Type == f.Protocols {
			return fmt.Sprintf("{atom:%s, timestamp:%d}",
				f.atom(xproto.Atom(t.Data32(0))), t.Data32(1))
		}
		return fmt.Sprintf("{win:%d, type:%s, format:%d, data:%v}",
			t.Window, f.atom(t.Type), t.Format, t.Data)
	case *XkbStateNotifyEvent:
		return fmt.Sprintf("{device:%d, base:%v, latched:%v, locked:%v, group:%d}",
			t.DeviceID, ModifierMask(t.BaseMods), ModifierMask(t.LatchedMods),
			ModifierMask(t.LockedMods), t.Group)
	case *XkbMapNotifyEvent:
		return fmt.Sprintf("{device:%d, changed:%#x, keysyms:%d+%d}",
			t.DeviceID, t.Changed, t.FirstKeySym, t.NKeySyms)
	case *UnknownEvent:
		return strings.TrimSpace(spew.Sdump(t.Raw[:]))
	}
	return fmt.Sprintf("%+v", ev)
}

func (f *Formatter) atom(a xproto.Atom) string {
	if f.Names != nil {
		if s := f.Names.AtomName(a); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%d", a)
}
