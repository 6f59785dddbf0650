package xevent

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

var ErrShortRecord = errors.New("xevent: short record")

const syntheticBit = 0x80

// GeGeneric is the response type of X Generic Event extension records.
const GeGeneric = 35

// Decoder turns raw records into events. XkbFirstEvent is the response type
// the server assigned to keyboard extension events (zero if not negotiated).
type Decoder struct {
	XkbFirstEvent uint8
}

// Decode returns a *ProtocolError as the error when the record is an error
// record. Unrecognized tags decode to *UnknownEvent without error.
func (d *Decoder) Decode(rec []byte) (Event, error) {
	if len(rec) < RecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortRecord, len(rec))
	}
	if rec[0] == 0 {
		return nil, decodeError(rec)
	}

	h := Header{
		Type:      rec[0] &^ syntheticBit,
		Synthetic: rec[0]&syntheticBit != 0,
		Sequence:  get16(rec[2:]),
	}

	// extension codes alias core codes in byte 1, so test the tag first
	if d.XkbFirstEvent != 0 && h.Type == d.XkbFirstEvent {
		return decodeXkb(h, rec), nil
	}

	switch h.Type {
	case xproto.KeyPress, xproto.KeyRelease:
		return &KeyEvent{decodeInput(h, rec)}, nil
	case xproto.ButtonPress, xproto.ButtonRelease:
		return &ButtonEvent{decodeInput(h, rec)}, nil
	case xproto.MotionNotify:
		return &MotionEvent{decodeInput(h, rec)}, nil
	case xproto.EnterNotify, xproto.LeaveNotify:
		return &CrossingEvent{
			Input:           decodeInput(h, rec),
			Mode:            rec[30],
			SameScreenFocus: rec[31],
		}, nil
	case xproto.FocusIn, xproto.FocusOut:
		return &FocusEvent{
			Header: h,
			Detail: rec[1],
			Window: xproto.Window(get32(rec[4:])),
			Mode:   rec[8],
		}, nil
	case xproto.KeymapNotify:
		ev := &KeymapNotifyEvent{Header: h}
		copy(ev.Keys[:], rec[1:])
		ev.Sequence = 0 // no sequence in this record
		return ev, nil
	case xproto.Expose:
		return &ExposeEvent{
			Header: h,
			Window: xproto.Window(get32(rec[4:])),
			X:      get16(rec[8:]),
			Y:      get16(rec[10:]),
			Width:  get16(rec[12:]),
			Height: get16(rec[14:]),
			Count:  get16(rec[16:]),
		}, nil
	case xproto.GraphicsExposure:
		return &GraphicsExposureEvent{
			Header:      h,
			Drawable:    xproto.Drawable(get32(rec[4:])),
			X:           get16(rec[8:]),
			Y:           get16(rec[10:]),
			Width:       get16(rec[12:]),
			Height:      get16(rec[14:]),
			MinorOpcode: get16(rec[16:]),
			Count:       get16(rec[18:]),
			MajorOpcode: rec[20],
		}, nil
	case xproto.NoExposure:
		return &NoExposureEvent{
			Header:      h,
			Drawable:    xproto.Drawable(get32(rec[4:])),
			MinorOpcode: get16(rec[8:]),
			MajorOpcode: rec[10],
		}, nil
	case xproto.VisibilityNotify:
		return &VisibilityNotifyEvent{
			Header: h,
			Window: xproto.Window(get32(rec[4:])),
			State:  rec[8],
		}, nil
	case xproto.CreateNotify:
		return &CreateNotifyEvent{
			Header:           h,
			Parent:           xproto.Window(get32(rec[4:])),
			Window:           xproto.Window(get32(rec[8:])),
			X:                int16(get16(rec[12:])),
			Y:                int16(get16(rec[14:])),
			Width:            get16(rec[16:]),
			Height:           get16(rec[18:]),
			BorderWidth:      get16(rec[20:]),
			OverrideRedirect: rec[22] != 0,
		}, nil
	case xproto.DestroyNotify:
		return &DestroyNotifyEvent{
			Header: h,
			Event:  xproto.Window(get32(rec[4:])),
			Window: xproto.Window(get32(rec[8:])),
		}, nil
	case xproto.UnmapNotify:
		return &UnmapNotifyEvent{
			Header:        h,
			Event:         xproto.Window(get32(rec[4:])),
			Window:        xproto.Window(get32(rec[8:])),
			FromConfigure: rec[12] != 0,
		}, nil
	case xproto.MapNotify:
		return &MapNotifyEvent{
			Header:           h,
			Event:            xproto.Window(get32(rec[4:])),
			Window:           xproto.Window(get32(rec[8:])),
			OverrideRedirect: rec[12] != 0,
		}, nil
	case xproto.MapRequest:
		return &MapRequestEvent{
			Header: h,
			Parent: xproto.Window(get32(rec[4:])),
			Window: xproto.Window(get32(rec[8:])),
		}, nil
	case xproto.ReparentNotify:
		return &ReparentNotifyEvent{
			Header:           h,
			Event:            xproto.Window(get32(rec[4:])),
			Window:           xproto.Window(get32(rec[8:])),
			Parent:           xproto.Window(get32(rec[12:])),
			X:                int16(get16(rec[16:])),
			Y:                int16(get16(rec[18:])),
			OverrideRedirect: rec[20] != 0,
		}, nil
	case xproto.ConfigureNotify:
		return &ConfigureNotifyEvent{
			Header:           h,
			Event:            xproto.Window(get32(rec[4:])),
			Window:           xproto.Window(get32(rec[8:])),
			AboveSibling:     xproto.Window(get32(rec[12:])),
			X:                int16(get16(rec[16:])),
			Y:                int16(get16(rec[18:])),
			Width:            get16(rec[20:]),
			Height:           get16(rec[22:]),
			BorderWidth:      get16(rec[24:]),
			OverrideRedirect: rec[26] != 0,
		}, nil
	case xproto.ConfigureRequest:
		return &ConfigureRequestEvent{
			Header:      h,
			StackMode:   rec[1],
			Parent:      xproto.Window(get32(rec[4:])),
			Window:      xproto.Window(get32(rec[8:])),
			Sibling:     xproto.Window(get32(rec[12:])),
			X:           int16(get16(rec[16:])),
			Y:           int16(get16(rec[18:])),
			Width:       get16(rec[20:]),
			Height:      get16(rec[22:]),
			BorderWidth: get16(rec[24:]),
			ValueMask:   get16(rec[26:]),
		}, nil
	case xproto.GravityNotify:
		return &GravityNotifyEvent{
			Header: h,
			Event:  xproto.Window(get32(rec[4:])),
			Window: xproto.Window(get32(rec[8:])),
			X:      int16(get16(rec[12:])),
			Y:      int16(get16(rec[14:])),
		}, nil
	case xproto.ResizeRequest:
		return &ResizeRequestEvent{
			Header: h,
			Window: xproto.Window(get32(rec[4:])),
			Width:  get16(rec[8:]),
			Height: get16(rec[10:]),
		}, nil
	case xproto.CirculateNotify, xproto.CirculateRequest:
		return &CirculateEvent{
			Header: h,
			Event:  xproto.Window(get32(rec[4:])),
			Window: xproto.Window(get32(rec[8:])),
			Place:  rec[16],
		}, nil
	case xproto.PropertyNotify:
		return &PropertyNotifyEvent{
			Header: h,
			Window: xproto.Window(get32(rec[4:])),
			Atom:   xproto.Atom(get32(rec[8:])),
			Time:   xproto.Timestamp(get32(rec[12:])),
			State:  rec[16],
		}, nil
	case xproto.SelectionClear:
		return &SelectionClearEvent{
			Header:    h,
			Time:      xproto.Timestamp(get32(rec[4:])),
			Owner:     xproto.Window(get32(rec[8:])),
			Selection: xproto.Atom(get32(rec[12:])),
		}, nil
	case xproto.SelectionRequest:
		return &SelectionRequestEvent{
			Header:    h,
			Time:      xproto.Timestamp(get32(rec[4:])),
			Owner:     xproto.Window(get32(rec[8:])),
			Requestor: xproto.Window(get32(rec[12:])),
			Selection: xproto.Atom(get32(rec[16:])),
			Target:    xproto.Atom(get32(rec[20:])),
			Property:  xproto.Atom(get32(rec[24:])),
		}, nil
	case xproto.SelectionNotify:
		return &SelectionNotifyEvent{
			Header:    h,
			Time:      xproto.Timestamp(get32(rec[4:])),
			Requestor: xproto.Window(get32(rec[8:])),
			Selection: xproto.Atom(get32(rec[12:])),
			Target:    xproto.Atom(get32(rec[16:])),
			Property:  xproto.Atom(get32(rec[20:])),
		}, nil
	case xproto.ColormapNotify:
		return &ColormapNotifyEvent{
			Header:   h,
			Window:   xproto.Window(get32(rec[4:])),
			Colormap: xproto.Colormap(get32(rec[8:])),
			New:      rec[12] != 0,
			State:    rec[13],
		}, nil
	case xproto.ClientMessage:
		ev := &ClientMessageEvent{
			Header: h,
			Format: rec[1],
			Window: xproto.Window(get32(rec[4:])),
			Type:   xproto.Atom(get32(rec[8:])),
		}
		copy(ev.Data[:], rec[12:32])
		return ev, nil
	case xproto.MappingNotify:
		return &MappingNotifyEvent{
			Header:       h,
			Request:      rec[4],
			FirstKeycode: xproto.Keycode(rec[5]),
			Count:        rec[6],
		}, nil
	case GeGeneric:
		return &GenericEvent{
			Header:    h,
			Extension: rec[1],
			Length:    get32(rec[4:]),
			EventType: get16(rec[8:]),
		}, nil
	}

	ev := &UnknownEvent{Header: h}
	copy(ev.Raw[:], rec)
	return ev, nil
}

// Key, button, motion and crossing records share this layout.
func decodeInput(h Header, rec []byte) Input {
	return Input{
		Header:     h,
		Detail:     rec[1],
		Time:       xproto.Timestamp(get32(rec[4:])),
		Root:       xproto.Window(get32(rec[8:])),
		Event:      xproto.Window(get32(rec[12:])),
		Child:      xproto.Window(get32(rec[16:])),
		RootX:      int16(get16(rec[20:])),
		RootY:      int16(get16(rec[22:])),
		EventX:     int16(get16(rec[24:])),
		EventY:     int16(get16(rec[26:])),
		State:      get16(rec[28:]),
		SameScreen: rec[30] != 0,
	}
}

func decodeError(rec []byte) *ProtocolError {
	return &ProtocolError{
		Code:        rec[1],
		Sequence:    get16(rec[2:]),
		BadValue:    get32(rec[4:]),
		MinorOpcode: get16(rec[8:]),
		MajorOpcode: rec[10],
	}
}

//----------

func get16(b []byte) uint16 { return xgb.Get16(b) }
func get32(b []byte) uint32 { return xgb.Get32(b) }
