package wmprotocols

import (
	"encoding/binary"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
	"github.com/jmigpin/xconn/driver/xdriver/xutil"
)

// https://tronche.com/gui/x/icccm/sec-4.html#s-4.2.8.1

// Atoms are interned once per connection.
type Atoms struct {
	WM_PROTOCOLS     xproto.Atom
	WM_DELETE_WINDOW xproto.Atom
}

func LoadAtoms(conn *xgb.Conn) (*Atoms, error) {
	a := &Atoms{}
	if err := xutil.LoadAtoms(conn, a, false); err != nil {
		return nil, err
	}
	return a, nil
}

// SetupWindow asks the window manager to send WM_DELETE_WINDOW instead of
// killing the client.
func (a *Atoms) SetupWindow(conn *xgb.Conn, win xproto.Window) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(a.WM_DELETE_WINDOW))
	cookie := xproto.ChangePropertyChecked(
		conn,
		xproto.PropModeAppend, // mode
		win,
		a.WM_PROTOCOLS,  // property
		xproto.AtomAtom, // type
		32,              // format: xprop says that it should be 32 bit
		uint32(len(data))/4,
		data)
	return cookie.Check()
}

// DeleteWindow recognizes a close request and returns its timestamp.
func (a *Atoms) DeleteWindow(ev *xevent.ClientMessageEvent) (xproto.Timestamp, bool) {
	if ev.Format != 32 || ev.Type != a.WM_PROTOCOLS {
		return 0, false
	}
	if xproto.Atom(ev.Data32(0)) != a.WM_DELETE_WINDOW {
		return 0, false
	}
	return xproto.Timestamp(ev.Data32(1)), true
}
