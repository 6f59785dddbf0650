package xkb

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// xgb has no XKEYBOARD binding. The few requests needed are encoded here.

const ExtensionName = "XKEYBOARD"

const (
	MinMajorVersion = 1
	MinMinorVersion = 0
)

// request minor opcodes
const (
	opUseExtension  = 0
	opSelectEvents  = 1
	opGetState      = 4
	opGetDeviceInfo = 24
)

const (
	useCoreKbd = 0x100

	eventMapNotify   = 1 << 1
	eventStateNotify = 1 << 2

	mapPartKeySyms     = 1 << 1
	mapPartModifierMap = 1 << 2

	ledClassDfltXIClass = 0x300
	ledIDDfltXIID       = 0x400
)

// ExtInfo is what the server assigned to the extension on this connection.
type ExtInfo struct {
	MajorOpcode uint8
	FirstEvent  uint8
	FirstError  uint8
}

//----------

func requestHeader(b []byte, major, minor uint8) {
	b[0] = major
	b[1] = minor
	xgb.Put16(b[2:], uint16(len(b)/4))
}

func useExtensionRequest(major uint8, wantMajor, wantMinor uint16) []byte {
	b := make([]byte, 8)
	requestHeader(b, major, opUseExtension)
	xgb.Put16(b[4:], wantMajor)
	xgb.Put16(b[6:], wantMinor)
	return b
}

func selectEventsRequest(major uint8, device uint16) []byte {
	b := make([]byte, 16)
	requestHeader(b, major, opSelectEvents)
	events := uint16(eventMapNotify | eventStateNotify)
	parts := uint16(mapPartKeySyms | mapPartModifierMap)
	xgb.Put16(b[4:], device)
	xgb.Put16(b[6:], events)  // affect which
	xgb.Put16(b[8:], 0)       // clear
	xgb.Put16(b[10:], events) // select all
	xgb.Put16(b[12:], parts)  // affect map
	xgb.Put16(b[14:], parts)  // map
	return b
}

func getStateRequest(major uint8, device uint16) []byte {
	b := make([]byte, 8)
	requestHeader(b, major, opGetState)
	xgb.Put16(b[4:], device)
	return b
}

func getDeviceInfoRequest(major uint8, device uint16) []byte {
	b := make([]byte, 16)
	requestHeader(b, major, opGetDeviceInfo)
	xgb.Put16(b[4:], device)
	xgb.Put16(b[6:], 0) // wanted
	b[8] = 0            // all buttons
	b[9] = 0            // first button
	b[10] = 0           // n buttons
	xgb.Put16(b[12:], ledClassDfltXIClass)
	xgb.Put16(b[14:], ledIDDfltXIID)
	return b
}

//----------

type useExtensionReply struct {
	Supported   bool
	ServerMajor uint16
	ServerMinor uint16
}

func parseUseExtensionReply(b []byte) (*useExtensionReply, error) {
	if len(b) < 12 {
		return nil, fmt.Errorf("short reply: %d", len(b))
	}
	return &useExtensionReply{
		Supported:   b[1] != 0,
		ServerMajor: xgb.Get16(b[8:]),
		ServerMinor: xgb.Get16(b[10:]),
	}, nil
}

func parseDeviceInfoReply(b []byte) (uint8, error) {
	if len(b) < 32 {
		return 0, fmt.Errorf("short reply: %d", len(b))
	}
	return b[1], nil
}

func parseStateReply(b []byte) (State, error) {
	if len(b) < 18 {
		return State{}, fmt.Errorf("short reply: %d", len(b))
	}
	return State{
		BaseMods:     b[9],
		LatchedMods:  b[10],
		LockedMods:   b[11],
		LockedGroup:  b[13],
		BaseGroup:    int16(xgb.Get16(b[14:])),
		LatchedGroup: int16(xgb.Get16(b[16:])),
	}, nil
}

//----------

// KeyboardError is the extension's only error (Keyboard, code FirstError).
type KeyboardError struct {
	Code     uint8
	Sequence uint16
	Value    uint32
	Minor    uint16
	Major    uint8
}

func newKeyboardError(buf []byte) *KeyboardError {
	return &KeyboardError{
		Code:     buf[1],
		Sequence: xgb.Get16(buf[2:]),
		Value:    xgb.Get32(buf[4:]),
		Minor:    xgb.Get16(buf[8:]),
		Major:    buf[10],
	}
}

func (e *KeyboardError) SequenceId() uint16       { return e.Sequence }
func (e *KeyboardError) BadId() uint32            { return e.Value }
func (e *KeyboardError) ErrorCode() uint8         { return e.Code }
func (e *KeyboardError) Opcodes() (uint8, uint16) { return e.Major, e.Minor }
func (e *KeyboardError) Error() string {
	return fmt.Sprintf("xkb keyboard error: seq=%d value=%#x opcode=%d.%d", e.Sequence, e.Value, e.Major, e.Minor)
}

// RawEvent carries an extension event record through xgb untouched.
type RawEvent []byte

func (e RawEvent) Bytes() []byte  { return e }
func (e RawEvent) String() string { return fmt.Sprintf("xkb event %v", []byte(e)) }

// Without constructors xgb drops extension events and can't complete
// checked requests that fail with an extension error.
func registerConstructors(ext ExtInfo) {
	xgb.NewEventFuncs[int(ext.FirstEvent)] = func(buf []byte) xgb.Event {
		b := make([]byte, len(buf))
		copy(b, buf)
		return RawEvent(b)
	}
	xgb.NewErrorFuncs[int(ext.FirstError)] = func(buf []byte) xgb.Error {
		return newKeyboardError(buf)
	}
}

//----------

// xgbServer talks to a live server.
type xgbServer struct {
	conn *xgb.Conn
	ext  ExtInfo
}

func NewServer(conn *xgb.Conn) Server {
	return &xgbServer{conn: conn}
}

func (s *xgbServer) QueryExtension() (ExtInfo, bool, error) {
	r, err := xproto.QueryExtension(s.conn, uint16(len(ExtensionName)), ExtensionName).Reply()
	if err != nil {
		return ExtInfo{}, false, err
	}
	if !r.Present {
		return ExtInfo{}, false, nil
	}
	s.ext = ExtInfo{MajorOpcode: r.MajorOpcode, FirstEvent: r.FirstEvent, FirstError: r.FirstError}
	registerConstructors(s.ext)
	return s.ext, true, nil
}

func (s *xgbServer) UseExtension(major, minor uint16) (bool, uint16, uint16, error) {
	buf, err := s.request(useExtensionRequest(s.ext.MajorOpcode, major, minor), true)
	if err != nil {
		return false, 0, 0, err
	}
	r, err := parseUseExtensionReply(buf)
	if err != nil {
		return false, 0, 0, err
	}
	return r.Supported, r.ServerMajor, r.ServerMinor, nil
}

func (s *xgbServer) CoreKeyboardDevice() (uint8, error) {
	buf, err := s.request(getDeviceInfoRequest(s.ext.MajorOpcode, useCoreKbd), true)
	if err != nil {
		return 0, err
	}
	return parseDeviceInfoReply(buf)
}

func (s *xgbServer) SelectEvents(device uint8) error {
	_, err := s.request(selectEventsRequest(s.ext.MajorOpcode, uint16(device)), false)
	return err
}

func (s *xgbServer) State(device uint8) (State, error) {
	buf, err := s.request(getStateRequest(s.ext.MajorOpcode, uint16(device)), true)
	if err != nil {
		return State{}, err
	}
	return parseStateReply(buf)
}

func (s *xgbServer) KeyboardMapping() (*MappingData, error) {
	si := xproto.Setup(s.conn)
	count := int(si.MaxKeycode) - int(si.MinKeycode) + 1
	if count <= 0 {
		return nil, fmt.Errorf("bad keycode count: %v", count)
	}
	kr, err := xproto.GetKeyboardMapping(s.conn, si.MinKeycode, byte(count)).Reply()
	if err != nil {
		return nil, err
	}
	mr, err := xproto.GetModifierMapping(s.conn).Reply()
	if err != nil {
		return nil, err
	}
	return &MappingData{
		MinKeycode:          si.MinKeycode,
		MaxKeycode:          si.MaxKeycode,
		KeysymsPerKeycode:   int(kr.KeysymsPerKeycode),
		Keysyms:             kr.Keysyms,
		KeycodesPerModifier: int(mr.KeycodesPerModifier),
		ModKeycodes:         mr.Keycodes,
	}, nil
}

// Checked requests without a reply return nil bytes.
func (s *xgbServer) request(buf []byte, reply bool) ([]byte, error) {
	cookie := s.conn.NewCookie(true, reply)
	s.conn.NewRequest(buf, cookie)
	if !reply {
		return nil, cookie.Check()
	}
	return cookie.Reply()
}
