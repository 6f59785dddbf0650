// Opens a window on the x display and logs what it receives.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/xconn/driver/xdriver"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
)

func main() {
	log.SetFlags(0)
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		printConfigError(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	logger := log.New(os.Stderr, "", log.Lmsgprefix)
	opt := xdriver.Options{
		Display:       cfg.Display,
		Logger:        logger,
		Debug:         cfg.Debug,
		DebugMotion:   cfg.DebugMotion,
		StrictDestroy: cfg.Strict,
	}
	conn, err := xdriver.Connect(opt)
	if err != nil {
		return err
	}
	defer conn.Close()
	conn.SetClosedCallback(func() { logger.Print("connection closed") })

	handle, err := conn.NewWindowID()
	if err != nil {
		return err
	}
	w := &demoWindow{conn: conn, handle: handle, logger: logger}
	if err := conn.Add(handle, w); err != nil {
		return err
	}

	mask := uint32(xproto.CwBackPixel | xproto.CwEventMask)
	values := []uint32{
		conn.WhitePixel(),
		xproto.EventMaskStructureNotify |
			xproto.EventMaskKeyPress |
			xproto.EventMaskKeyRelease |
			xproto.EventMaskButtonPress |
			xproto.EventMaskButtonRelease |
			xproto.EventMaskPointerMotion |
			xproto.EventMaskEnterWindow |
			xproto.EventMaskLeaveWindow |
			xproto.EventMaskFocusChange,
	}
	err = conn.CreateMainWindow(handle, 0, 0, cfg.Width, cfg.Height, cfg.Title, 0, xproto.WindowClassInputOutput, mask, values)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return conn.Run(ctx)
}

//----------

type demoWindow struct {
	conn   *xdriver.Conn
	handle xproto.Window
	logger *log.Logger
}

func (w *demoWindow) OnWindowSizeChanged(width, height int) {
	w.logger.Printf("size: %dx%d", width, height)
}
func (w *demoWindow) OnMapChanged(minimized bool) {
	w.logger.Printf("minimized: %v", minimized)
}
func (w *demoWindow) ConvertModifiers(m xevent.ModifierMask) xdriver.Modifiers {
	return xdriver.Modifiers(m)
}
func (w *demoWindow) OnMouseMove(x, y int, mods xdriver.Modifiers) {
	w.logger.Printf("move: %d,%d %v", x, y, xevent.ModifierMask(mods))
}
func (w *demoWindow) OnKeyEvent(x, y int, mods xdriver.Modifiers, pressed bool, sym xproto.Keysym) {
	w.logger.Printf("key: %#x pressed=%v %v", sym, pressed, xevent.ModifierMask(mods))
}
func (w *demoWindow) OnMouseClick(x, y int, mods xdriver.Modifiers, pressed bool, button int) {
	w.logger.Printf("button %d: %d,%d pressed=%v %v", button, x, y, pressed, xevent.ModifierMask(mods))
}
func (w *demoWindow) OnMouseEnter(x, y int, mods xdriver.Modifiers, entered bool) {
	w.logger.Printf("enter: %v", entered)
}
func (w *demoWindow) OnFocusChanged(in bool) {
	w.logger.Printf("focus: %v", in)
}
func (w *demoWindow) OnDeleteWindowRequest(ts xproto.Timestamp) {
	w.logger.Printf("delete request (time %d)", ts)
	if err := w.conn.DestroyWindow(w.handle); err != nil {
		w.logger.Print(err)
	}
}
