package xevent

import (
	"fmt"
	"strings"
)

// ModifierMask is the 16-bit key/button state carried by input events.
type ModifierMask uint16

const (
	ModShift ModifierMask = 1 << iota
	ModLock
	ModCtrl
	ModAlt // mod1
	Mod2   // usually numlock
	Mod3
	ModSuper // mod4
	Mod5     // usually altgr
	ModButton1
	ModButton2
	ModButton3
	ModButton4
	ModButton5
	ModBit13
	ModBit14
	ModBit15
)

var modNames = [16]string{
	"Shift",
	"Lock",
	"Ctrl",
	"Alt",
	"Mod2",
	"Mod3",
	"Super",
	"Mod5",
	"Button1",
	"Button2",
	"Button3",
	"Button4",
	"Button5",
	"Bit13",
	"Bit14",
	"Bit15",
}

func (m ModifierMask) Has(m2 ModifierMask) bool {
	return m&m2 == m2
}

// Names returns the names of the set bits, lowest bit first.
func (m ModifierMask) Names() []string {
	var u []string
	for i := 0; i < len(modNames); i++ {
		if m&(1<<i) != 0 {
			u = append(u, modNames[i])
		}
	}
	return u
}

func (m ModifierMask) String() string {
	if m == 0 {
		return "0"
	}
	return strings.Join(m.Names(), "|")
}

func ParseModifierMask(s string) (ModifierMask, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	var m ModifierMask
	for _, name := range strings.Split(s, "|") {
		name = strings.TrimSpace(name)
		k := -1
		for i, n := range modNames {
			if n == name {
				k = i
				break
			}
		}
		if k < 0 {
			return 0, fmt.Errorf("unknown modifier: %q", name)
		}
		m |= 1 << k
	}
	return m, nil
}
