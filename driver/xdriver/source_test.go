package xdriver

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

func TestRecordCodes(t *testing.T) {
	type pair struct {
		ev   xgb.Event
		code uint8
	}
	pairs := []pair{
		{xproto.KeyPressEvent{}, xproto.KeyPress},
		{xproto.KeyReleaseEvent{}, xproto.KeyRelease},
		{xproto.ButtonPressEvent{}, xproto.ButtonPress},
		{xproto.ButtonReleaseEvent{}, xproto.ButtonRelease},
		{xproto.EnterNotifyEvent{}, xproto.EnterNotify},
		{xproto.LeaveNotifyEvent{}, xproto.LeaveNotify},
		{xproto.FocusInEvent{}, xproto.FocusIn},
		{xproto.FocusOutEvent{}, xproto.FocusOut},
		{xproto.CirculateNotifyEvent{}, xproto.CirculateNotify},
		{xproto.CirculateRequestEvent{}, xproto.CirculateRequest},
		{xproto.DestroyNotifyEvent{}, xproto.DestroyNotify},
	}
	for i, p := range pairs {
		b := record(p.ev, nil)
		if len(b) != xevent.RecordSize {
			t.Fatalf("%v: size %v", i, len(b))
		}
		if b[0] != p.code {
			t.Fatalf("%v: expecting code %v, got %v", i, p.code, b[0])
		}
	}
}

func TestRecordError(t *testing.T) {
	b := record(nil, xproto.AtomError{Sequence: 9, BadValue: 123})
	d := &xevent.Decoder{}
	ev, err := d.Decode(b)
	if ev != nil {
		t.Fatal(ev)
	}
	pe, ok := err.(*xevent.ProtocolError)
	if !ok {
		t.Fatalf("%T", err)
	}
	if pe.Code != xproto.BadAtom || pe.Sequence != 9 || pe.BadValue != 123 {
		t.Fatalf("%+v", pe)
	}
}

func TestRecordNil(t *testing.T) {
	if b := record(nil, nil); b != nil {
		t.Fatal(b)
	}
}

func TestSourcePending(t *testing.T) {
	s := &xgbSource{pending: []byte{1}}
	if err := s.Wait(); err != nil {
		t.Fatal(err)
	}
	b, err := s.Poll()
	if err != nil || len(b) != 1 {
		t.Fatal(b, err)
	}
	if s.pending != nil {
		t.Fatal("pending not taken")
	}
}
