package xevent

import (
	"fmt"
	"reflect"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ProtocolError is an error record delivered in the event stream.
type ProtocolError struct {
	Code        uint8
	Sequence    uint16
	BadValue    uint32
	MinorOpcode uint16
	MajorOpcode uint8
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("x11 error: %s(%d): seq=%d badvalue=%d opcode=%d.%d",
		ErrorCodeName(e.Code), e.Code, e.Sequence, e.BadValue, e.MajorOpcode, e.MinorOpcode)
}

var errorCodeNames = [...]string{
	"Success",
	"Request",
	"Value",
	"Window",
	"Pixmap",
	"Atom",
	"Cursor",
	"Font",
	"Match",
	"Drawable",
	"Access",
	"Alloc",
	"Colormap",
	"GContext",
	"IDChoice",
	"Name",
	"Length",
	"Implementation",
}

func ErrorCodeName(code uint8) string {
	if int(code) < len(errorCodeNames) {
		return errorCodeNames[code]
	}
	return "Unknown"
}

//----------

// ErrorRecord encodes an xgb error back into a raw error record so it can
// flow through the same decode path as events. Extension errors report
// their code with an ErrorCode method; others that xgb does not model are
// reported as zero. The request opcodes are kept.
func ErrorRecord(err xgb.Error) []byte {
	b := make([]byte, RecordSize)
	b[1] = coreErrorCode(err)
	xgb.Put16(b[2:], err.SequenceId())
	xgb.Put32(b[4:], err.BadId())
	major, minor := errorOpcodes(err)
	xgb.Put16(b[8:], minor)
	b[10] = major
	return b
}

// errorOpcodes reads the failed request's opcodes. Extension errors report
// them with an Opcodes method; xproto errors carry them as struct fields.
func errorOpcodes(err xgb.Error) (uint8, uint16) {
	if op, ok := err.(interface{ Opcodes() (uint8, uint16) }); ok {
		return op.Opcodes()
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, 0
	}
	var major uint8
	var minor uint16
	if f := v.FieldByName("MajorOpcode"); f.IsValid() && f.CanUint() {
		major = uint8(f.Uint())
	}
	if f := v.FieldByName("MinorOpcode"); f.IsValid() && f.CanUint() {
		minor = uint16(f.Uint())
	}
	return major, minor
}

func coreErrorCode(err xgb.Error) uint8 {
	if ec, ok := err.(interface{ ErrorCode() uint8 }); ok {
		return ec.ErrorCode()
	}
	switch err.(type) {
	case xproto.RequestError:
		return xproto.BadRequest
	case xproto.ValueError:
		return xproto.BadValue
	case xproto.WindowError:
		return xproto.BadWindow
	case xproto.PixmapError:
		return xproto.BadPixmap
	case xproto.AtomError:
		return xproto.BadAtom
	case xproto.CursorError:
		return xproto.BadCursor
	case xproto.FontError:
		return xproto.BadFont
	case xproto.MatchError:
		return xproto.BadMatch
	case xproto.DrawableError:
		return xproto.BadDrawable
	case xproto.AccessError:
		return xproto.BadAccess
	case xproto.AllocError:
		return xproto.BadAlloc
	case xproto.ColormapError:
		return xproto.BadColormap
	case xproto.GContextError:
		return xproto.BadGContext
	case xproto.IDChoiceError:
		return xproto.BadIDChoice
	case xproto.NameError:
		return xproto.BadName
	case xproto.LengthError:
		return xproto.BadLength
	case xproto.ImplementationError:
		return xproto.BadImplementation
	}
	return 0
}
