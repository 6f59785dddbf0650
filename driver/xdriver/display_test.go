package xdriver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestCanonicalDisplay(t *testing.T) {
	type pair struct {
		in  string
		out string
	}
	pairs := []pair{
		{":0", ":0.0"},
		{":1", ":1.0"},
		{":1.2", ":1.2"},
		{"localhost:10", "localhost:10.0"},
		{"unix:0.1", "unix:0.1"},
		{"host.example.org:3.0", "host.example.org:3.0"},
	}
	for i, p := range pairs {
		s, err := CanonicalDisplay(p.in)
		if err != nil {
			t.Fatalf("%v: %v", i, err)
		}
		if s != p.out {
			t.Fatalf("%v: expecting %q, got %q", i, p.out, s)
		}
	}
}

func TestCanonicalDisplayErrors(t *testing.T) {
	names := []string{
		"0",
		"a:b:0",
		":x",
		":",
		":0.",
		":0.s",
		":-1",
		"::0",
	}
	for i, name := range names {
		_, err := CanonicalDisplay(name)
		if !errors.Is(err, ErrBadDisplayName) {
			t.Fatalf("%v: %q: expecting bad display name, got %v", i, name, err)
		}
	}
}

func TestParseDisplayEnv(t *testing.T) {
	t.Setenv("DISPLAY", "host:7.1")
	d, err := ParseDisplay("")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Display{Host: "host", Number: 7, Screen: 1}) {
		t.Fatalf("%+v", d)
	}

	t.Setenv("DISPLAY", "")
	d, err = ParseDisplay("")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != ":0.0" {
		t.Fatal(d)
	}
}

func TestCheckLocalSocket(t *testing.T) {
	dir := t.TempDir()
	defer func(s string) { socketDir = s }(socketDir)
	socketDir = dir

	if err := os.WriteFile(filepath.Join(dir, "X3"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := checkLocalSocket(Display{Number: 3}); err != nil {
		t.Fatal(err)
	}
	if err := checkLocalSocket(Display{Host: "unix", Number: 3}); err != nil {
		t.Fatal(err)
	}
	err := checkLocalSocket(Display{Number: 4})
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("expecting connect error, got %v", err)
	}
	// remote hosts are not checked
	if err := checkLocalSocket(Display{Host: "remote", Number: 4}); err != nil {
		t.Fatal(err)
	}
}

func TestConnectBadDisplay(t *testing.T) {
	_, err := Connect(Options{Display: "nocolon"})
	if !errors.Is(err, ErrBadDisplayName) {
		t.Fatal(err)
	}

	defer func(s string) { socketDir = s }(socketDir)
	socketDir = t.TempDir()
	_, err = Connect(Options{Display: ":55"})
	if !errors.Is(err, ErrConnect) {
		t.Fatal(err)
	}
}

func TestSelectScreen(t *testing.T) {
	roots := []xproto.ScreenInfo{{Root: 10}, {Root: 20}}
	s, err := selectScreen(roots, Display{Number: 0, Screen: 1})
	if err != nil {
		t.Fatal(err)
	}
	if s.Root != 20 {
		t.Fatal(s.Root)
	}

	d, err := ParseDisplay(":0.5")
	if err != nil {
		t.Fatal(err)
	}
	_, err = selectScreen(roots[:1], d)
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("expecting connect error, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid screen 5 (1 screens)") {
		t.Fatal(err)
	}
}
