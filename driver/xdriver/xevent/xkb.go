package xevent

import (
	"github.com/BurntSushi/xgb/xproto"
)

// XKB event sub-types, carried in byte 1 of a record whose response type is
// the extension's first event. They overlap the core event codes.
const (
	XkbNewKeyboardNotify     = 0
	XkbMapNotify             = 1
	XkbStateNotify           = 2
	XkbControlsNotify        = 3
	XkbIndicatorStateNotify  = 4
	XkbIndicatorMapNotify    = 5
	XkbNamesNotify           = 6
	XkbCompatMapNotify       = 7
	XkbBellNotify            = 8
	XkbActionMessage         = 9
	XkbAccessXNotify         = 10
	XkbExtensionDeviceNotify = 11
)

var xkbTypeNames = [...]string{
	"NewKeyboardNotify",
	"MapNotify",
	"StateNotify",
	"ControlsNotify",
	"IndicatorStateNotify",
	"IndicatorMapNotify",
	"NamesNotify",
	"CompatMapNotify",
	"BellNotify",
	"ActionMessage",
	"AccessXNotify",
	"ExtensionDeviceNotify",
}

func XkbTypeName(t uint8) string {
	if int(t) < len(xkbTypeNames) {
		return xkbTypeNames[t]
	}
	return "XkbUnknown"
}

//----------

// XkbHeader is common to all keyboard extension events.
type XkbHeader struct {
	Header
	XkbType  uint8
	Time     xproto.Timestamp
	DeviceID uint8
}

// XkbEvent is implemented by all keyboard extension events.
type XkbEvent interface {
	Event
	Xkb() *XkbHeader
}

func (h *XkbHeader) Xkb() *XkbHeader { return h }

type XkbMapNotifyEvent struct {
	XkbHeader
	PtrBtnActions    uint8
	Changed          uint16
	MinKeyCode       xproto.Keycode
	MaxKeyCode       xproto.Keycode
	FirstType        uint8
	NTypes           uint8
	FirstKeySym      xproto.Keycode
	NKeySyms         uint8
	FirstKeyAct      xproto.Keycode
	NKeyActs         uint8
	FirstKeyBehavior xproto.Keycode
	NKeyBehavior     uint8
	FirstKeyExplicit xproto.Keycode
	NKeyExplicit     uint8
	FirstModMapKey   xproto.Keycode
	NModMapKeys      uint8
	FirstVModMapKey  xproto.Keycode
	NVModMapKeys     uint8
	VirtualMods      uint16
}

type XkbStateNotifyEvent struct {
	XkbHeader
	Mods             uint8
	BaseMods         uint8
	LatchedMods      uint8
	LockedMods       uint8
	Group            uint8
	BaseGroup        int16
	LatchedGroup     int16
	LockedGroup      uint8
	CompatState      uint8
	GrabMods         uint8
	CompatGrabMods   uint8
	LookupMods       uint8
	CompatLookupMods uint8
	PtrBtnState      uint16
	Changed          uint16
	Keycode          xproto.Keycode
	EventType        uint8
	RequestMajor     uint8
	RequestMinor     uint8
}

// XkbOtherEvent is any keyboard extension event that is recognized but not
// decoded further.
type XkbOtherEvent struct {
	XkbHeader
}

//----------

func decodeXkb(h Header, b []byte) Event {
	xh := XkbHeader{
		Header:   h,
		XkbType:  b[1],
		Time:     xproto.Timestamp(get32(b[4:])),
		DeviceID: b[8],
	}
	switch xh.XkbType {
	case XkbMapNotify:
		return &XkbMapNotifyEvent{
			XkbHeader:        xh,
			PtrBtnActions:    b[9],
			Changed:          get16(b[10:]),
			MinKeyCode:       xproto.Keycode(b[12]),
			MaxKeyCode:       xproto.Keycode(b[13]),
			FirstType:        b[14],
			NTypes:           b[15],
			FirstKeySym:      xproto.Keycode(b[16]),
			NKeySyms:         b[17],
			FirstKeyAct:      xproto.Keycode(b[18]),
			NKeyActs:         b[19],
			FirstKeyBehavior: xproto.Keycode(b[20]),
			NKeyBehavior:     b[21],
			FirstKeyExplicit: xproto.Keycode(b[22]),
			NKeyExplicit:     b[23],
			FirstModMapKey:   xproto.Keycode(b[24]),
			NModMapKeys:      b[25],
			FirstVModMapKey:  xproto.Keycode(b[26]),
			NVModMapKeys:     b[27],
			VirtualMods:      get16(b[28:]),
		}
	case XkbStateNotify:
		return &XkbStateNotifyEvent{
			XkbHeader:        xh,
			Mods:             b[9],
			BaseMods:         b[10],
			LatchedMods:      b[11],
			LockedMods:       b[12],
			Group:            b[13],
			BaseGroup:        int16(get16(b[14:])),
			LatchedGroup:     int16(get16(b[16:])),
			LockedGroup:      b[18],
			CompatState:      b[19],
			GrabMods:         b[20],
			CompatGrabMods:   b[21],
			LookupMods:       b[22],
			CompatLookupMods: b[23],
			PtrBtnState:      get16(b[24:]),
			Changed:          get16(b[26:]),
			Keycode:          xproto.Keycode(b[28]),
			EventType:        b[29],
			RequestMajor:     b[30],
			RequestMinor:     b[31],
		}
	default:
		return &XkbOtherEvent{XkbHeader: xh}
	}
}
