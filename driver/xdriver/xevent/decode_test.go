package xevent

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// xgb encodes the "copied" events (release, leave, ...) with the code of
// the event they copy, so the code byte is set explicitly.
func record(ev xgb.Event, code byte) []byte {
	b := ev.Bytes()
	b[0] = code
	return b
}

func TestDecodeInput(t *testing.T) {
	d := &Decoder{}
	bp := xproto.ButtonPressEvent{
		Sequence:   7,
		Detail:     3,
		Time:       1234,
		Root:       1,
		Event:      0x200001,
		Child:      0,
		RootX:      110,
		RootY:      120,
		EventX:     10,
		EventY:     20,
		State:      xproto.KeyButMaskShift | xproto.KeyButMaskControl,
		SameScreen: true,
	}

	type pair struct {
		code    byte
		pressed bool
	}
	pairs := []pair{
		{xproto.ButtonPress, true},
		{xproto.ButtonRelease, false},
	}
	for _, p := range pairs {
		ev, err := d.Decode(record(bp, p.code))
		if err != nil {
			t.Fatal(err)
		}
		be, ok := ev.(*ButtonEvent)
		if !ok {
			t.Fatalf("expecting button event, got %T", ev)
		}
		if be.Pressed() != p.pressed {
			t.Fatalf("code %d: pressed=%v", p.code, be.Pressed())
		}
		if be.Event != 0x200001 || be.Detail != 3 || be.EventX != 10 || be.EventY != 20 {
			t.Fatalf("bad fields: %+v", be)
		}
		if be.Time != 1234 || be.Sequence != 7 || !be.SameScreen {
			t.Fatalf("bad fields: %+v", be)
		}
		if ModifierMask(be.State) != ModShift|ModCtrl {
			t.Fatalf("bad state: %v", ModifierMask(be.State))
		}
	}
}

func TestDecodeKeyRelease(t *testing.T) {
	d := &Decoder{}
	kp := xproto.KeyPressEvent{Detail: 38, Event: 5, EventX: -3, EventY: 4}
	ev, err := d.Decode(record(kp, xproto.KeyRelease))
	if err != nil {
		t.Fatal(err)
	}
	ke := ev.(*KeyEvent)
	if ke.Pressed() || ke.Keycode() != 38 || ke.EventX != -3 || ke.Code() != xproto.KeyRelease {
		t.Fatalf("%+v", ke)
	}
}

func TestDecodeCrossingAndFocus(t *testing.T) {
	d := &Decoder{}
	en := xproto.EnterNotifyEvent{Event: 9, EventX: 1, EventY: 2, Mode: 1, SameScreenFocus: 3}
	ev, err := d.Decode(record(en, xproto.LeaveNotify))
	if err != nil {
		t.Fatal(err)
	}
	ce := ev.(*CrossingEvent)
	if ce.Entered() || ce.Event != 9 || ce.Mode != 1 || ce.SameScreenFocus != 3 {
		t.Fatalf("%+v", ce)
	}

	fi := xproto.FocusInEvent{Detail: 2, Event: 9, Mode: 0}
	ev, err = d.Decode(record(fi, xproto.FocusOut))
	if err != nil {
		t.Fatal(err)
	}
	fe := ev.(*FocusEvent)
	if fe.In() || fe.Window != 9 || fe.Detail != 2 {
		t.Fatalf("%+v", fe)
	}
}

func TestDecodeStructure(t *testing.T) {
	d := &Decoder{}

	cn := xproto.ConfigureNotifyEvent{Event: 3, Window: 4, X: -10, Y: 5, Width: 640, Height: 480, BorderWidth: 1}
	ev, err := d.Decode(cn.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	c := ev.(*ConfigureNotifyEvent)
	if c.Window != 4 || c.X != -10 || c.Width != 640 || c.Height != 480 || c.BorderWidth != 1 {
		t.Fatalf("%+v", c)
	}

	dn := xproto.DestroyNotifyEvent{Event: 3, Window: 4}
	ev, err = d.Decode(dn.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if de := ev.(*DestroyNotifyEvent); de.Window != 4 || de.Event != 3 {
		t.Fatalf("%+v", de)
	}

	un := xproto.UnmapNotifyEvent{Event: 3, Window: 4, FromConfigure: true}
	ev, err = d.Decode(un.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if ue := ev.(*UnmapNotifyEvent); ue.Window != 4 || !ue.FromConfigure {
		t.Fatalf("%+v", ue)
	}

	mn := xproto.MapNotifyEvent{Event: 3, Window: 4}
	ev, err = d.Decode(mn.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if me := ev.(*MapNotifyEvent); me.Window != 4 {
		t.Fatalf("%+v", me)
	}

	mp := xproto.MappingNotifyEvent{Request: xproto.MappingKeyboard, FirstKeycode: 8, Count: 240}
	ev, err = d.Decode(mp.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if m := ev.(*MappingNotifyEvent); m.Request != xproto.MappingKeyboard || m.FirstKeycode != 8 || m.Count != 240 {
		t.Fatalf("%+v", m)
	}
}

func TestDecodeClientMessage(t *testing.T) {
	d := &Decoder{}
	cm := xproto.ClientMessageEvent{
		Format: 32,
		Window: 4,
		Type:   300,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{301, 5555, 0, 0, 0}),
	}
	ev, err := d.Decode(cm.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	c := ev.(*ClientMessageEvent)
	if c.Format != 32 || c.Window != 4 || c.Type != 300 {
		t.Fatalf("%+v", c)
	}
	if c.Data32(0) != 301 || c.Data32(1) != 5555 {
		t.Fatalf("data: %v", c.Data)
	}
}

func TestDecodeSynthetic(t *testing.T) {
	d := &Decoder{}
	cn := xproto.ConfigureNotifyEvent{Window: 4, Width: 1, Height: 1}
	b := cn.Bytes()
	b[0] |= 0x80
	ev, err := d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	c := ev.(*ConfigureNotifyEvent)
	if !c.Synthetic || c.Code() != xproto.ConfigureNotify {
		t.Fatalf("%+v", c.Header)
	}
}

func TestDecodeError(t *testing.T) {
	d := &Decoder{}
	b := make([]byte, RecordSize)
	b[1] = xproto.BadWindow
	xgb.Put16(b[2:], 77)
	xgb.Put32(b[4:], 0x400001)
	xgb.Put16(b[8:], 0)
	b[10] = 4 // DestroyWindow

	ev, err := d.Decode(b)
	if ev != nil {
		t.Fatalf("expecting no event: %v", ev)
	}
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expecting protocol error: %v", err)
	}
	if pe.Code != xproto.BadWindow || pe.Sequence != 77 || pe.BadValue != 0x400001 || pe.MajorOpcode != 4 {
		t.Fatalf("%+v", pe)
	}
	if !strings.Contains(pe.Error(), "Window(3)") {
		t.Fatalf("bad message: %v", pe)
	}
}

func TestErrorRecord(t *testing.T) {
	type pair struct {
		err   xgb.Error
		code  uint8
		major uint8
		minor uint16
	}
	pairs := []pair{
		{xproto.WindowError{Sequence: 12, BadValue: 99, MajorOpcode: 4, MinorOpcode: 0}, xproto.BadWindow, 4, 0},
		{xproto.ValueError{Sequence: 12, BadValue: 99, MajorOpcode: 139, MinorOpcode: 24}, xproto.BadValue, 139, 24},
		{xproto.RequestError{Sequence: 12, BadValue: 99, MajorOpcode: 200, MinorOpcode: 1}, xproto.BadRequest, 200, 1},
		{xproto.AtomError{Sequence: 12, BadValue: 99, MajorOpcode: 18}, xproto.BadAtom, 18, 0},
	}
	for i, p := range pairs {
		b := ErrorRecord(p.err)
		d := &Decoder{}
		_, err2 := d.Decode(b)
		var pe *ProtocolError
		if !errors.As(err2, &pe) {
			t.Fatal(err2)
		}
		if pe.Code != p.code || pe.Sequence != 12 || pe.BadValue != 99 {
			t.Fatalf("%v: %+v", i, pe)
		}
		if pe.MajorOpcode != p.major || pe.MinorOpcode != p.minor {
			t.Fatalf("%v: opcodes: %+v", i, pe)
		}
		s := fmt.Sprintf("opcode=%d.%d", p.major, p.minor)
		if !strings.Contains(pe.Error(), s) {
			t.Fatalf("%v: %v", i, pe)
		}
	}
}

func TestDecodeShort(t *testing.T) {
	d := &Decoder{}
	_, err := d.Decode(make([]byte, 10))
	if !errors.Is(err, ErrShortRecord) {
		t.Fatal(err)
	}
}

func TestDecodeUnknown(t *testing.T) {
	d := &Decoder{}
	b := make([]byte, RecordSize)
	b[0] = 90
	b[5] = 0xab
	ev, err := d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	u, ok := ev.(*UnknownEvent)
	if !ok {
		t.Fatalf("%T", ev)
	}
	if u.Code() != 90 || u.Raw[5] != 0xab {
		t.Fatalf("%+v", u)
	}
}

//----------

func xkbRecord(first, xkbType, device uint8) []byte {
	b := make([]byte, RecordSize)
	b[0] = first
	b[1] = xkbType
	xgb.Put16(b[2:], 3)
	xgb.Put32(b[4:], 1000)
	b[8] = device
	return b
}

func TestDecodeXkb(t *testing.T) {
	d := &Decoder{XkbFirstEvent: 85}

	b := xkbRecord(85, XkbStateNotify, 3)
	b[9] = 0x05
	b[10] = 0x01
	b[11] = 0x00
	b[12] = 0x04
	b[13] = 1
	xgb.Put16(b[14:], 0xffff) // -1
	b[18] = 1
	ev, err := d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	sn, ok := ev.(*XkbStateNotifyEvent)
	if !ok {
		t.Fatalf("%T", ev)
	}
	if sn.DeviceID != 3 || sn.Time != 1000 || sn.Mods != 5 || sn.BaseMods != 1 || sn.LockedMods != 4 {
		t.Fatalf("%+v", sn)
	}
	if sn.BaseGroup != -1 || sn.LockedGroup != 1 || sn.Group != 1 {
		t.Fatalf("%+v", sn)
	}

	b = xkbRecord(85, XkbMapNotify, 3)
	xgb.Put16(b[10:], 6)
	b[16] = 8
	b[17] = 248
	ev, err = d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	mn := ev.(*XkbMapNotifyEvent)
	if mn.Changed != 6 || mn.FirstKeySym != 8 || mn.NKeySyms != 248 {
		t.Fatalf("%+v", mn)
	}

	ev, err = d.Decode(xkbRecord(85, XkbBellNotify, 3))
	if err != nil {
		t.Fatal(err)
	}
	if oe, ok := ev.(*XkbOtherEvent); !ok || oe.XkbType != XkbBellNotify {
		t.Fatalf("%T %+v", ev, ev)
	}
}

func TestDecodeXkbAliasesCore(t *testing.T) {
	// the xkb sub-type (2) equals KeyPress; must not be read as a key event
	b := xkbRecord(85, XkbStateNotify, 3)

	d := &Decoder{}
	ev, err := d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.(*UnknownEvent); !ok {
		t.Fatalf("not negotiated: expecting unknown, got %T", ev)
	}

	d.XkbFirstEvent = 85
	ev, err = d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.(XkbEvent); !ok {
		t.Fatalf("expecting xkb event, got %T", ev)
	}
}
