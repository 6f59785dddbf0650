// Package xevent decodes the fixed 32-byte records of the X11 event stream
// into typed events.
package xevent

import (
	"github.com/BurntSushi/xgb/xproto"
)

// RecordSize is the size of every core event and error record.
const RecordSize = 32

// Event is one decoded record. Concrete types are pointers to the structs
// in this file (and in xkb.go for keyboard extension events).
type Event interface {
	Code() uint8
}

// Header is common to all decoded records.
type Header struct {
	Type      uint8 // response type, synthetic bit cleared
	Synthetic bool  // sent with SendEvent
	Sequence  uint16
}

func (h Header) Code() uint8        { return h.Type }
func (h Header) IsSynthetic() bool { return h.Synthetic }

//----------

// Input is the payload shared by key, button and motion records.
type Input struct {
	Header
	Detail     uint8 // keycode, button number or motion hint
	Time       xproto.Timestamp
	Root       xproto.Window
	Event      xproto.Window
	Child      xproto.Window
	RootX      int16
	RootY      int16
	EventX     int16
	EventY     int16
	State      uint16
	SameScreen bool
}

// KeyEvent is a KeyPress or KeyRelease.
type KeyEvent struct{ Input }

func (ev *KeyEvent) Pressed() bool { return ev.Type == xproto.KeyPress }
func (ev *KeyEvent) Keycode() xproto.Keycode {
	return xproto.Keycode(ev.Detail)
}

// ButtonEvent is a ButtonPress or ButtonRelease.
type ButtonEvent struct{ Input }

func (ev *ButtonEvent) Pressed() bool { return ev.Type == xproto.ButtonPress }

type MotionEvent struct{ Input }

// CrossingEvent is an EnterNotify or LeaveNotify.
type CrossingEvent struct {
	Input
	Mode            uint8
	SameScreenFocus uint8
}

func (ev *CrossingEvent) Entered() bool { return ev.Type == xproto.EnterNotify }

// FocusEvent is a FocusIn or FocusOut.
type FocusEvent struct {
	Header
	Detail uint8
	Window xproto.Window
	Mode   uint8
}

func (ev *FocusEvent) In() bool { return ev.Type == xproto.FocusIn }

type KeymapNotifyEvent struct {
	Header
	Keys [31]byte
}

//----------

type ExposeEvent struct {
	Header
	Window        xproto.Window
	X, Y          uint16
	Width, Height uint16
	Count         uint16
}

type GraphicsExposureEvent struct {
	Header
	Drawable      xproto.Drawable
	X, Y          uint16
	Width, Height uint16
	MinorOpcode   uint16
	Count         uint16
	MajorOpcode   uint8
}

type NoExposureEvent struct {
	Header
	Drawable    xproto.Drawable
	MinorOpcode uint16
	MajorOpcode uint8
}

type VisibilityNotifyEvent struct {
	Header
	Window xproto.Window
	State  uint8
}

//----------

type CreateNotifyEvent struct {
	Header
	Parent           xproto.Window
	Window           xproto.Window
	X, Y             int16
	Width, Height    uint16
	BorderWidth      uint16
	OverrideRedirect bool
}

type DestroyNotifyEvent struct {
	Header
	Event  xproto.Window
	Window xproto.Window
}

type UnmapNotifyEvent struct {
	Header
	Event         xproto.Window
	Window        xproto.Window
	FromConfigure bool
}

type MapNotifyEvent struct {
	Header
	Event            xproto.Window
	Window           xproto.Window
	OverrideRedirect bool
}

type MapRequestEvent struct {
	Header
	Parent xproto.Window
	Window xproto.Window
}

type ReparentNotifyEvent struct {
	Header
	Event            xproto.Window
	Window           xproto.Window
	Parent           xproto.Window
	X, Y             int16
	OverrideRedirect bool
}

type ConfigureNotifyEvent struct {
	Header
	Event            xproto.Window
	Window           xproto.Window
	AboveSibling     xproto.Window
	X, Y             int16
	Width, Height    uint16
	BorderWidth      uint16
	OverrideRedirect bool
}

type ConfigureRequestEvent struct {
	Header
	StackMode     uint8
	Parent        xproto.Window
	Window        xproto.Window
	Sibling       xproto.Window
	X, Y          int16
	Width, Height uint16
	BorderWidth   uint16
	ValueMask     uint16
}

type GravityNotifyEvent struct {
	Header
	Event  xproto.Window
	Window xproto.Window
	X, Y   int16
}

type ResizeRequestEvent struct {
	Header
	Window        xproto.Window
	Width, Height uint16
}

// CirculateEvent is a CirculateNotify or CirculateRequest.
type CirculateEvent struct {
	Header
	Event  xproto.Window
	Window xproto.Window
	Place  uint8
}

//----------

type PropertyNotifyEvent struct {
	Header
	Window xproto.Window
	Atom   xproto.Atom
	Time   xproto.Timestamp
	State  uint8
}

type SelectionClearEvent struct {
	Header
	Time      xproto.Timestamp
	Owner     xproto.Window
	Selection xproto.Atom
}

type SelectionRequestEvent struct {
	Header
	Time      xproto.Timestamp
	Owner     xproto.Window
	Requestor xproto.Window
	Selection xproto.Atom
	Target    xproto.Atom
	Property  xproto.Atom
}

type SelectionNotifyEvent struct {
	Header
	Time      xproto.Timestamp
	Requestor xproto.Window
	Selection xproto.Atom
	Target    xproto.Atom
	Property  xproto.Atom
}

type ColormapNotifyEvent struct {
	Header
	Window   xproto.Window
	Colormap xproto.Colormap
	New      bool
	State    uint8
}

// ClientMessageEvent carries 20 bytes of data whose interpretation depends
// on Format (8, 16 or 32).
type ClientMessageEvent struct {
	Header
	Format uint8
	Window xproto.Window
	Type   xproto.Atom
	Data   [20]byte
}

// Data32 returns the i-th 32-bit data word (0..4).
func (ev *ClientMessageEvent) Data32(i int) uint32 {
	return get32(ev.Data[i*4:])
}

type MappingNotifyEvent struct {
	Header
	Request      uint8
	FirstKeycode xproto.Keycode
	Count        uint8
}

// GenericEvent is the header of an XGE record. The payload beyond the first
// 32 bytes is not kept.
type GenericEvent struct {
	Header
	Extension uint8
	Length    uint32
	EventType uint16
}

// UnknownEvent is a record whose tag is not a core event and does not
// belong to a negotiated extension.
type UnknownEvent struct {
	Header
	Raw [RecordSize]byte
}
