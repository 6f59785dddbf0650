package xkb

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

// https://tronche.com/gui/x/xlib/input/keyboard-encoding.html
// https://www.x.org/releases/X11R7.7/doc/kbproto/xkbproto.html (core mapping)

// xproto.Keycode is a physical key.
// xproto.Keysym is the encoding of a symbol on the cap of a key.
// A list of keysyms is associated with each keycode. With the keyboard
// extension active the server lays them out as:
//	G1L1 G1L2 G2L1 G2L2 G1L3 G1L4 G2L3 G2L4 G3L1 G3L2 G3L3 G3L4 G4L1 ...

// MappingData is the raw core keyboard and modifier mapping.
type MappingData struct {
	MinKeycode        xproto.Keycode
	MaxKeycode        xproto.Keycode
	KeysymsPerKeycode int
	Keysyms           []xproto.Keysym

	// 8 modifiers, KeycodesPerModifier keycodes each
	KeycodesPerModifier int
	ModKeycodes         []xproto.Keycode
}

//----------

// Keymap resolves keycodes to keysyms for a given modifier/group state.
type Keymap struct {
	md *MappingData

	modGroups struct {
		numLock int8
		level3  int8
		alt     int8
		super   int8
	}
}

func NewKeymap(md *MappingData) (*Keymap, error) {
	if md == nil {
		return nil, fmt.Errorf("no mapping data")
	}
	if md.KeysymsPerKeycode < 2 {
		return nil, fmt.Errorf("keysyms per keycode < 2")
	}
	n := int(md.MaxKeycode) - int(md.MinKeycode) + 1
	if n <= 0 {
		return nil, fmt.Errorf("bad keycode range: %v-%v", md.MinKeycode, md.MaxKeycode)
	}
	if len(md.Keysyms) < n*md.KeysymsPerKeycode {
		return nil, fmt.Errorf("short keysyms table: %v<%v", len(md.Keysyms), n*md.KeysymsPerKeycode)
	}
	if len(md.ModKeycodes) < 8*md.KeycodesPerModifier {
		return nil, fmt.Errorf("short modifier table")
	}
	km := &Keymap{md: md}
	km.detectModGroups()
	return km, nil
}

//----------

func (km *Keymap) detectModGroups() {
	// 8 modifiers groups, that can have n keycodes
	//0	Shift
	//1	Lock (Caps Lock)
	//2	Control
	//--- detect
	//3	Mod1 (Usually Alt)
	//4	Mod2 (Often Num Lock)
	//5	Mod3 (Rarely used)
	//6	Mod4 (Often Super)
	//7	Mod5 (Often AltGr)

	type KS = xproto.Keysym
	numLocks := []KS{
		0xff7f, // XK_Num_Lock
	}
	level3s := []KS{
		0xfe03, // XK_ISO_Level3_Shift
		0xff7e, // XK_Mode_switch
	}
	alts := []KS{
		0xffe9, // XK_Alt_L
		0xffea, // XK_Alt_R
	}
	supers := []KS{
		0xffeb, // XK_Super_L
		0xffec, // XK_Super_R
	}

	// defaults
	km.modGroups.numLock = 4
	km.modGroups.level3 = 7
	km.modGroups.alt = 3
	km.modGroups.super = 6

	type pair struct {
		group *int8
		kss   []KS
	}
	pairs := []pair{
		{&km.modGroups.numLock, numLocks},
		{&km.modGroups.level3, level3s},
		{&km.modGroups.alt, alts},
		{&km.modGroups.super, supers},
	}

	stride := km.md.KeycodesPerModifier
	for _, p := range pairs {
	groupLoop: // keep first found group
		for g := 3; g < 8; g++ {
			kcs := km.md.ModKeycodes[g*stride : (g+1)*stride]
			for _, kc := range kcs {
				if kc == 0 {
					continue
				}
				for _, ks := range km.keysyms(kc) {
					for _, ks2 := range p.kss {
						if ks == ks2 {
							*p.group = int8(g)
							break groupLoop
						}
					}
				}
			}
		}
	}
}

func (km *Keymap) NumLockMask() xevent.ModifierMask {
	return 1 << km.modGroups.numLock
}
func (km *Keymap) Level3Mask() xevent.ModifierMask {
	return 1 << km.modGroups.level3
}

//----------

func (km *Keymap) keysyms(kc xproto.Keycode) []xproto.Keysym {
	if kc < km.md.MinKeycode || kc > km.md.MaxKeycode {
		return nil
	}
	y := int(kc - km.md.MinKeycode)
	stride := km.md.KeysymsPerKeycode
	return km.md.Keysyms[y*stride : (y+1)*stride]
}

// Keys are read with 4 levels per group. Groups 1 and 2 interleave their
// first two levels; groups 3 and 4 follow with all their levels.
const groupWidth = 4

// column returns the keysym at group/level, or zero.
func column(kss []xproto.Keysym, group, level int) xproto.Keysym {
	if level < 0 || level >= groupWidth || group < 0 || group >= 4 {
		return 0
	}
	var i int
	switch {
	case group >= 2:
		i = 2*groupWidth + (group-2)*groupWidth + level
	case level < 2:
		i = group*2 + level
	default:
		i = 4 + group*(groupWidth-2) + level - 2
	}
	if i < len(kss) {
		return kss[i]
	}
	return 0
}

// numGroups returns the last group that carries a symbol.
func numGroups(kss []xproto.Keysym) int {
	n := 0
	for g := 0; g < 4; g++ {
		for l := 0; l < groupWidth; l++ {
			if column(kss, g, l) != 0 {
				n = g + 1
				break
			}
		}
	}
	return n
}

func wrapGroup(group, n int) int {
	if n <= 1 {
		return 0
	}
	group %= n
	if group < 0 {
		group += n
	}
	return group
}

//----------

type keyType int

const (
	oneLevel keyType = iota
	twoLevel
	alphabetic
	keypad
)

// levels returns the two base levels of the group, with an empty second
// level filled as the protocol describes.
func levels(kss []xproto.Keysym, group int) (xproto.Keysym, xproto.Keysym) {
	ks1, ks2 := column(kss, group, 0), column(kss, group, 1)
	if ks2 == 0 {
		lo, up := convertCase(ks1)
		if lo != up {
			return lo, up
		}
		ks2 = ks1
	}
	return ks1, ks2
}

func typeOf(ks1, ks2 xproto.Keysym) keyType {
	if isKeypad(ks2) {
		return keypad
	}
	lo, up := convertCase(ks1)
	if lo != up && ks1 == lo && ks2 == up {
		return alphabetic
	}
	if ks1 != ks2 {
		return twoLevel
	}
	return oneLevel
}

//----------

// Lookup resolves a keycode under the given effective modifiers and group.
// It also returns the modifiers that took part in the translation.
func (km *Keymap) Lookup(kc xproto.Keycode, mods xevent.ModifierMask, group int) (xproto.Keysym, xevent.ModifierMask) {
	kss := km.keysyms(kc)
	if len(kss) == 0 {
		return 0, 0
	}
	group = wrapGroup(group, numGroups(kss))

	ks1, ks2 := levels(kss, group)
	typ := typeOf(ks1, ks2)

	hasShift := mods.Has(xevent.ModShift)
	hasLock := mods.Has(xevent.ModLock)
	hasNumLock := mods.Has(km.NumLockMask())

	var consumed xevent.ModifierMask
	switch typ {
	case keypad:
		consumed = xevent.ModShift | km.NumLockMask()
	case alphabetic:
		consumed = xevent.ModShift | xevent.ModLock
	case twoLevel:
		consumed = xevent.ModShift
	}

	// level 3 (altgr)
	ks3, ks4 := column(kss, group, 2), column(kss, group, 3)
	if ks3 != 0 {
		consumed |= km.Level3Mask()
		if ks4 != 0 {
			consumed |= xevent.ModShift
		}
		if mods.Has(km.Level3Mask()) {
			if hasShift && ks4 != 0 {
				return ks4, consumed
			}
			return ks3, consumed
		}
	}

	shifted := false
	switch typ {
	case keypad:
		shifted = hasNumLock && !hasShift
	case alphabetic:
		shifted = hasShift != hasLock
	case twoLevel:
		shifted = hasShift
	}
	if shifted {
		return ks2, consumed
	}
	return ks1, consumed
}

//----------

func (km *Keymap) String() string {
	sb := &strings.Builder{}
	for kc := int(km.md.MinKeycode); kc <= int(km.md.MaxKeycode); kc++ {
		kss := km.keysyms(xproto.Keycode(kc))
		u := []string{}
		for _, ks := range kss {
			u = append(u, fmt.Sprintf("%#x", ks))
		}
		fmt.Fprintf(sb, "kc=%v: %v\n", kc, strings.Join(u, " "))
	}
	return sb.String()
}

//----------
//----------
//----------

func isKeypad(ks xproto.Keysym) bool {
	return (0xff80 <= ks && ks <= 0xffbd) ||
		(0x11000000 <= ks && ks <= 0x1100ffff)
}

// KeysymRune returns the unicode value of latin-1 and unicode keysyms.
func KeysymRune(ks xproto.Keysym) (rune, bool) {
	switch {
	case 0x20 <= ks && ks <= 0x7e, 0xa0 <= ks && ks <= 0xff:
		return rune(ks), true
	case 0x01000100 <= ks && ks <= 0x0110ffff:
		return rune(ks - 0x01000000), true
	}
	return 0, false
}

func runeKeysym(ru rune) xproto.Keysym {
	if ru < 0x100 {
		return xproto.Keysym(ru)
	}
	return xproto.Keysym(ru) + 0x01000000
}

func convertCase(ks xproto.Keysym) (lower, upper xproto.Keysym) {
	ru, ok := KeysymRune(ks)
	if !ok {
		return ks, ks
	}
	lo, up := unicode.ToLower(ru), unicode.ToUpper(ru)
	// keep within the same encoding range
	if (lo < 0x100) != (ru < 0x100) || (up < 0x100) != (ru < 0x100) {
		return ks, ks
	}
	return runeKeysym(lo), runeKeysym(up)
}
