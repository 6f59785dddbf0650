package xdriver

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Display is a parsed display name: [host]:display[.screen]
type Display struct {
	Host   string
	Number int
	Screen int
}

func (d Display) String() string {
	return fmt.Sprintf("%s:%d.%d", d.Host, d.Number, d.Screen)
}

// ParseDisplay parses a display name. An empty name uses $DISPLAY, then ":0".
func ParseDisplay(name string) (Display, error) {
	if name == "" {
		name = os.Getenv("DISPLAY")
		if name == "" {
			name = ":0"
		}
	}
	d, err := parseDisplay(name)
	if err != nil {
		return Display{}, fmt.Errorf("%w: %q: %v", ErrBadDisplayName, name, err)
	}
	return d, nil
}

func parseDisplay(name string) (Display, error) {
	if strings.Count(name, ":") != 1 {
		return Display{}, fmt.Errorf("expecting exactly one colon")
	}
	host, rest, _ := strings.Cut(name, ":")
	num, screen, hasScreen := strings.Cut(rest, ".")

	d := Display{Host: host}
	n, err := parseUint(num)
	if err != nil {
		return Display{}, fmt.Errorf("display number: %v", err)
	}
	d.Number = n
	if hasScreen {
		s, err := parseUint(screen)
		if err != nil {
			return Display{}, fmt.Errorf("screen number: %v", err)
		}
		d.Screen = s
	}
	return d, nil
}

func parseUint(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("missing")
	}
	for _, ru := range s {
		if ru < '0' || ru > '9' {
			return 0, fmt.Errorf("unexpected character %q", ru)
		}
	}
	return strconv.Atoi(s)
}

// CanonicalDisplay returns the name as host:display.screen.
func CanonicalDisplay(name string) (string, error) {
	d, err := ParseDisplay(name)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

//----------

var socketDir = "/tmp/.X11-unix"

// checkLocalSocket gives a descriptive error before dialing when a local
// display has no listening socket. Remote displays are not checked.
func checkLocalSocket(d Display) error {
	if d.Host != "" && d.Host != "unix" {
		return nil
	}
	path := fmt.Sprintf("%s/X%d", socketDir, d.Number)
	if err := unix.Access(path, unix.W_OK); err != nil {
		return fmt.Errorf("%w: display %v: socket %v: %v", ErrConnect, d, path, err)
	}
	return nil
}

// selectScreen returns the screen named by the display. A screen the server
// doesn't have is a connect error.
func selectScreen(roots []xproto.ScreenInfo, d Display) (*xproto.ScreenInfo, error) {
	if d.Screen < 0 || d.Screen >= len(roots) {
		return nil, errors.Wrapf(ErrConnect, "display %v: invalid screen %d (%d screens)", d, d.Screen, len(roots))
	}
	return &roots[d.Screen], nil
}
