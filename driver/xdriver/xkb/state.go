package xkb

import (
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

// State is the live modifier and group state of the keyboard.
type State struct {
	BaseMods    uint8
	LatchedMods uint8
	LockedMods  uint8

	BaseGroup    int16
	LatchedGroup int16
	LockedGroup  uint8
}

func (s *State) Mods() xevent.ModifierMask {
	return xevent.ModifierMask(s.BaseMods | s.LatchedMods | s.LockedMods)
}

// Group is the effective group before wrapping to a key's group count.
func (s *State) Group() int {
	return int(s.BaseGroup) + int(s.LatchedGroup) + int(s.LockedGroup)
}

func (s *State) update(ev *xevent.XkbStateNotifyEvent) {
	s.BaseMods = ev.BaseMods
	s.LatchedMods = ev.LatchedMods
	s.LockedMods = ev.LockedMods
	s.BaseGroup = ev.BaseGroup
	s.LatchedGroup = ev.LatchedGroup
	s.LockedGroup = ev.LockedGroup
}
