// Package xkb tracks the keyboard mapping and modifier state using the
// X keyboard extension.
package xkb

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
	"github.com/pkg/errors"
)

var (
	ErrExtensionMissing = errors.New("xkb: extension missing")
	ErrVersionTooOld    = errors.New("xkb: extension version too old")
	ErrNoKeyboardDevice = errors.New("xkb: no core keyboard device")
	ErrSelectEvents     = errors.New("xkb: select events failed")
	ErrKeymap           = errors.New("xkb: keymap/state")
	ErrPhase            = errors.New("xkb: bad phase")
)

// Server is the part of the connection the tracker needs.
type Server interface {
	QueryExtension() (ExtInfo, bool, error)
	UseExtension(major, minor uint16) (supported bool, serverMajor, serverMinor uint16, err error)
	CoreKeyboardDevice() (uint8, error)
	SelectEvents(device uint8) error
	KeyboardMapping() (*MappingData, error)
	State(device uint8) (State, error)
}

//----------

type Phase int

const (
	Uninitialized Phase = iota
	Negotiated
	Active
	Remapping
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Negotiated:
		return "negotiated"
	case Active:
		return "active"
	case Remapping:
		return "remapping"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

//----------

// Tracker owns the keymap and state of the core keyboard. It is used only
// from the goroutine that dispatches events.
type Tracker struct {
	srv   Server
	phase Phase

	// learned once at negotiation
	ext    ExtInfo
	device uint8

	keymap *Keymap
	state  State
}

func NewTracker(srv Server) *Tracker {
	return &Tracker{srv: srv}
}

// Init negotiates and builds the keymap and state.
func (t *Tracker) Init() error {
	if err := t.Negotiate(); err != nil {
		return err
	}
	return t.Build()
}

func (t *Tracker) Negotiate() error {
	if t.phase != Uninitialized {
		return fmt.Errorf("%w: negotiate in %v", ErrPhase, t.phase)
	}
	ext, ok, err := t.srv.QueryExtension()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtensionMissing, err)
	}
	if !ok {
		return ErrExtensionMissing
	}

	supported, smaj, smin, err := t.srv.UseExtension(MinMajorVersion, MinMinorVersion)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVersionTooOld, err)
	}
	if !supported || smaj < MinMajorVersion || (smaj == MinMajorVersion && smin < MinMinorVersion) {
		return fmt.Errorf("%w: server has %d.%d, want %d.%d", ErrVersionTooOld, smaj, smin, MinMajorVersion, MinMinorVersion)
	}

	device, err := t.srv.CoreKeyboardDevice()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoKeyboardDevice, err)
	}

	if err := t.srv.SelectEvents(device); err != nil {
		return fmt.Errorf("%w: %w", ErrSelectEvents, err)
	}

	t.ext = ext
	t.device = device
	t.phase = Negotiated
	return nil
}

// Build creates the keymap and state from the current device mapping.
func (t *Tracker) Build() error {
	if t.phase != Negotiated && t.phase != Remapping {
		return fmt.Errorf("%w: build in %v", ErrPhase, t.phase)
	}
	md, err := t.srv.KeyboardMapping()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeymap, err)
	}
	km, err := NewKeymap(md)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeymap, err)
	}
	st, err := t.srv.State(t.device)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeymap, err)
	}
	t.keymap = km
	t.state = st
	t.phase = Active
	return nil
}

// Close releases the keymap and state.
func (t *Tracker) Close() {
	t.keymap = nil
	t.state = State{}
	t.phase = Uninitialized
}

//----------

func (t *Tracker) Phase() Phase       { return t.phase }
func (t *Tracker) DeviceID() uint8    { return t.device }
func (t *Tracker) FirstEvent() uint8  { return t.ext.FirstEvent }
func (t *Tracker) Extension() ExtInfo { return t.ext }
func (t *Tracker) Keymap() *Keymap    { return t.keymap }

//----------

// HandleEvent acts on extension events for the tracked device. It reports
// whether the event was for the tracked device.
func (t *Tracker) HandleEvent(ev xevent.XkbEvent) (bool, error) {
	if t.phase != Active || ev.Xkb().DeviceID != t.device {
		return false, nil
	}
	switch ev2 := ev.(type) {
	case *xevent.XkbMapNotifyEvent:
		return true, t.Rebuild()
	case *xevent.XkbStateNotifyEvent:
		t.UpdateState(ev2)
	}
	return true, nil
}

// Rebuild replaces the keymap and state in place after a map change.
func (t *Tracker) Rebuild() error {
	t.phase = Remapping
	t.keymap = nil
	return t.Build()
}

func (t *Tracker) UpdateState(ev *xevent.XkbStateNotifyEvent) {
	t.state.update(ev)
}

//----------

func (t *Tracker) SymbolFor(kc xproto.Keycode) xproto.Keysym {
	ks, _ := t.lookup(kc)
	return ks
}

func (t *Tracker) ActiveModifiers() xevent.ModifierMask {
	return t.state.Mods()
}

func (t *Tracker) ConsumedModifiers(kc xproto.Keycode) xevent.ModifierMask {
	_, c := t.lookup(kc)
	return c
}

func (t *Tracker) EffectiveModifiers(kc xproto.Keycode) xevent.ModifierMask {
	return t.ActiveModifiers() &^ t.ConsumedModifiers(kc)
}

func (t *Tracker) lookup(kc xproto.Keycode) (xproto.Keysym, xevent.ModifierMask) {
	if t.keymap == nil {
		return 0, 0
	}
	return t.keymap.Lookup(kc, t.state.Mods(), t.state.Group())
}
