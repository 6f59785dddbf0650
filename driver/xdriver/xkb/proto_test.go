package xkb

import (
	"bytes"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

func TestRequests(t *testing.T) {
	type pair struct {
		b   []byte
		exp []byte
	}
	pairs := []pair{
		{
			useExtensionRequest(135, 1, 0),
			[]byte{135, 0, 2, 0, 1, 0, 0, 0},
		},
		{
			selectEventsRequest(135, useCoreKbd),
			[]byte{135, 1, 4, 0, 0, 1, 6, 0, 0, 0, 6, 0, 6, 0, 6, 0},
		},
		{
			getStateRequest(135, 3),
			[]byte{135, 4, 2, 0, 3, 0, 0, 0},
		},
		{
			getDeviceInfoRequest(135, useCoreKbd),
			[]byte{135, 24, 4, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 3, 0, 4},
		},
	}
	for i, p := range pairs {
		if !bytes.Equal(p.b, p.exp) {
			t.Fatalf("%v: got %v, expecting %v", i, p.b, p.exp)
		}
	}
}

func TestParseReplies(t *testing.T) {
	b := make([]byte, 32)
	b[0] = 1
	b[1] = 1
	xgb.Put16(b[8:], 1)
	xgb.Put16(b[10:], 2)
	r, err := parseUseExtensionReply(b)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Supported || r.ServerMajor != 1 || r.ServerMinor != 2 {
		t.Fatalf("%+v", r)
	}

	b = make([]byte, 32)
	b[1] = 3
	if d, err := parseDeviceInfoReply(b); err != nil || d != 3 {
		t.Fatal(d, err)
	}

	b = make([]byte, 32)
	b[9] = 1
	b[10] = 2
	b[11] = 4
	b[13] = 1
	xgb.Put16(b[14:], 0xffff)
	xgb.Put16(b[16:], 2)
	st, err := parseStateReply(b)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mods() != 7 || st.BaseGroup != -1 || st.LatchedGroup != 2 || st.LockedGroup != 1 || st.Group() != 2 {
		t.Fatalf("%+v", st)
	}

	if _, err := parseStateReply(b[:8]); err == nil {
		t.Fatal("expecting error")
	}
}

func TestKeyboardErrorRecord(t *testing.T) {
	buf := make([]byte, 32)
	buf[1] = 137
	xgb.Put16(buf[2:], 44)
	xgb.Put32(buf[4:], 0x100)
	xgb.Put16(buf[8:], 4)
	buf[10] = 135
	ke := newKeyboardError(buf)
	rec := xevent.ErrorRecord(ke)
	_, err := (&xevent.Decoder{}).Decode(rec)
	pe, ok := err.(*xevent.ProtocolError)
	if !ok {
		t.Fatal(err)
	}
	if pe.Code != 137 || pe.Sequence != 44 || pe.BadValue != 0x100 || pe.MajorOpcode != 135 || pe.MinorOpcode != 4 {
		t.Fatalf("%+v", pe)
	}
}
