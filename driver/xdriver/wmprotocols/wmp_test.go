package wmprotocols

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

func clientMessage(format uint8, typ xproto.Atom, d0, d1 uint32) *xevent.ClientMessageEvent {
	ev := &xevent.ClientMessageEvent{Format: format, Window: 7, Type: typ}
	xgb.Put32(ev.Data[0:], d0)
	xgb.Put32(ev.Data[4:], d1)
	return ev
}

func TestDeleteWindow(t *testing.T) {
	a := &Atoms{WM_PROTOCOLS: 300, WM_DELETE_WINDOW: 301}

	type pair struct {
		ev *xevent.ClientMessageEvent
		ts xproto.Timestamp
		ok bool
	}
	pairs := []pair{
		{clientMessage(32, 300, 301, 5555), 5555, true},
		{clientMessage(8, 300, 301, 5555), 0, false},
		{clientMessage(32, 400, 301, 5555), 0, false},
		{clientMessage(32, 300, 302, 5555), 0, false}, // e.g. WM_TAKE_FOCUS
	}
	for i, p := range pairs {
		ts, ok := a.DeleteWindow(p.ev)
		if ts != p.ts || ok != p.ok {
			t.Fatalf("%v: %v %v", i, ts, ok)
		}
	}
}
