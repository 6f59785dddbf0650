package xdriver

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
	"github.com/pkg/errors"
)

var ErrClosed = errors.New("connection closed")

// xgbSource turns what xgb has already read into raw records.
type xgbSource struct {
	conn    *xgb.Conn
	pending []byte
}

func (s *xgbSource) Poll() ([]byte, error) {
	if s.pending != nil {
		rec := s.pending
		s.pending = nil
		return rec, nil
	}
	ev, xerr := s.conn.PollForEvent()
	return record(ev, xerr), nil
}

// Wait blocks until a record is available and keeps it for the next Poll.
func (s *xgbSource) Wait() error {
	if s.pending != nil {
		return nil
	}
	ev, xerr := s.conn.WaitForEvent()
	if ev == nil && xerr == nil {
		return ErrClosed
	}
	s.pending = record(ev, xerr)
	return nil
}

//----------

func record(ev xgb.Event, xerr xgb.Error) []byte {
	if xerr != nil {
		return xevent.ErrorRecord(xerr)
	}
	if ev == nil {
		return nil
	}
	b := ev.Bytes()
	// xgb encodes the events that copy another's layout with the code of
	// the original
	switch ev.(type) {
	case xproto.KeyReleaseEvent:
		b[0] = xproto.KeyRelease
	case xproto.ButtonReleaseEvent:
		b[0] = xproto.ButtonRelease
	case xproto.LeaveNotifyEvent:
		b[0] = xproto.LeaveNotify
	case xproto.FocusOutEvent:
		b[0] = xproto.FocusOut
	case xproto.CirculateRequestEvent:
		b[0] = xproto.CirculateRequest
	}
	return b
}
