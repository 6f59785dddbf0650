package xdriver

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver/winreg"
)

func TestDestroyWindow(t *testing.T) {
	reg := winreg.New[Window]()
	_ = reg.Add(win1, &testWindow{})

	sent := false
	err := destroyWindow(reg, win1, func() error {
		sent = true
		// marked before the request goes out
		if !reg.IsDestroyed(win1) {
			t.Fatal("not marked")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Fatal("not sent")
	}
	// removed only by the destroy notification
	if reg.Len() != 1 {
		t.Fatal(reg.Len())
	}
}

func TestDestroyWindowRequestFails(t *testing.T) {
	reg := winreg.New[Window]()
	_ = reg.Add(win1, &testWindow{})
	_ = reg.Add(win2, &testWindow{})

	reqErr := xproto.WindowError{Sequence: 5, BadValue: uint32(win1)}
	err := destroyWindow(reg, win1, func() error { return reqErr })
	if !errors.Is(err, reqErr) {
		t.Fatalf("expecting request error, got %v", err)
	}
	if _, err := reg.Lookup(win1); !errors.Is(err, winreg.ErrNoSuchHandle) {
		t.Fatalf("handle kept: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatal(reg.Len())
	}
}

func TestDestroyWindowUnknown(t *testing.T) {
	reg := winreg.New[Window]()
	err := destroyWindow(reg, win1, func() error {
		t.Fatal("request sent")
		return nil
	})
	if !errors.Is(err, winreg.ErrNoSuchHandle) {
		t.Fatal(err)
	}
}
