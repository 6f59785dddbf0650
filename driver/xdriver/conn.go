// Package xdriver owns the connection to the X server and dispatches its
// events to registered windows.
package xdriver

import (
	"context"
	"fmt"
	"log"
	"math/bits"
	"os"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/jmigpin/xconn/driver/xdriver/winreg"
	"github.com/jmigpin/xconn/driver/xdriver/wmprotocols"
	"github.com/jmigpin/xconn/driver/xdriver/xevent"
	"github.com/jmigpin/xconn/driver/xdriver/xkb"
	"github.com/jmigpin/xconn/driver/xdriver/xutil"
	"github.com/pkg/errors"
)

var (
	ErrConnect        = errors.New("x connect")
	ErrBadDisplayName = errors.New("bad display name")
	ErrValueMask      = errors.New("value mask does not match values")
)

type Conn struct {
	Display Display

	conn   *xgb.Conn
	xu     *xgbutil.XUtil
	screen *xproto.ScreenInfo
	logger *log.Logger

	atoms    *wmprotocols.Atoms
	names    *xutil.AtomNames
	kbd      *xkb.Tracker
	registry *winreg.Registry[Window]
	disp     *Dispatcher
	src      *xgbSource

	runMu sync.Mutex // one Run at a time

	closeOnce sync.Once
	closedMu  sync.Mutex
	closedFn  func()
	isClosed  bool
}

func Connect(opt Options) (*Conn, error) {
	d, err := ParseDisplay(opt.Display)
	if err != nil {
		return nil, err
	}
	if err := checkLocalSocket(d); err != nil {
		return nil, err
	}
	conn, err := xgb.NewConnDisplay(d.String())
	if err != nil {
		return nil, fmt.Errorf("%w: display %v: %w", ErrConnect, d, err)
	}

	c := &Conn{
		Display:  d,
		conn:     conn,
		logger:   opt.logger(),
		registry: winreg.New[Window](),
		src:      &xgbSource{conn: conn},
	}
	if err := c.init(opt); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) init(opt Options) error {
	si := xproto.Setup(c.conn)
	screen, err := selectScreen(si.Roots, c.Display)
	if err != nil {
		return err
	}
	c.screen = screen

	xu, err := xgbutil.NewConnXgb(c.conn)
	if err != nil {
		return errors.Wrap(err, "xgbutil")
	}
	c.xu = xu

	atoms, err := wmprotocols.LoadAtoms(c.conn)
	if err != nil {
		return errors.Wrap(err, "atoms")
	}
	c.atoms = atoms
	c.names = xutil.NewAtomNames(xu)
	c.names.Preload(atoms)

	c.kbd = xkb.NewTracker(xkb.NewServer(c.conn))
	if err := c.kbd.Init(); err != nil {
		return errors.Wrap(err, "keyboard")
	}

	c.disp = &Dispatcher{
		Decoder:  xevent.Decoder{XkbFirstEvent: c.kbd.FirstEvent()},
		Registry: c.registry,
		Keyboard: c.kbd,
		Atoms:    c.atoms,
		Formatter: &xevent.Formatter{
			Names:     c.names,
			Protocols: c.atoms.WM_PROTOCOLS,
		},
		Logger:        c.logger,
		Debug:         opt.Debug,
		DebugMotion:   opt.DebugMotion,
		StrictDestroy: opt.StrictDestroy,
	}
	return nil
}

//----------

// SetClosedCallback sets a function called once when the connection
// closes, by Close or because the server went away.
func (c *Conn) SetClosedCallback(fn func()) {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	c.closedFn = fn
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.conn.Close()
		// the tracker belongs to Run while it runs
		if c.runMu.TryLock() {
			c.kbd.Close()
			c.runMu.Unlock()
		}

		c.closedMu.Lock()
		c.isClosed = true
		fn := c.closedFn
		c.closedMu.Unlock()
		if fn != nil {
			fn()
		}
	})
	return nil
}

func (c *Conn) closed() bool {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	return c.isClosed
}

//----------

// Run waits for events and dispatches them until the last window is
// destroyed (nil), the connection closes (ErrClosed), or ctx is done.
func (c *Conn) Run(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	defer func() {
		if c.closed() {
			c.kbd.Close()
		}
	}()

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	for {
		if err := c.src.Wait(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_ = c.Close()
			return err
		}
		done, err := c.disp.Dispatch(c.src)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

//----------

func (c *Conn) NewWindowID() (xproto.Window, error) {
	return xproto.NewWindowId(c.conn)
}

func (c *Conn) WhitePixel() uint32 {
	return c.screen.WhitePixel
}

func (c *Conn) Root() xproto.Window {
	return c.screen.Root
}

// CreateMainWindow creates a top level window and maps it. Values must
// follow the bits of valueMask in protocol order. The window still has to
// be added to receive events.
func (c *Conn) CreateMainWindow(handle xproto.Window, x, y int16, width, height uint16, title string, borderWidth, class uint16, valueMask uint32, values []uint32) error {
	if n := bits.OnesCount32(valueMask); n != len(values) {
		return fmt.Errorf("%w: %d bits, %d values", ErrValueMask, n, len(values))
	}
	err := xproto.CreateWindowChecked(
		c.conn,
		c.screen.RootDepth,
		handle,
		c.screen.Root,
		x, y, width, height,
		borderWidth,
		class,
		c.screen.RootVisual,
		valueMask, values).Check()
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	if err := icccm.WmNameSet(c.xu, handle, title); err != nil {
		return errors.Wrap(err, "wm name")
	}
	if err := ewmh.WmPidSet(c.xu, handle, uint(os.Getpid())); err != nil {
		return errors.Wrap(err, "wm pid")
	}
	if err := c.atoms.SetupWindow(c.conn, handle); err != nil {
		return errors.Wrap(err, "wm protocols")
	}
	if err := c.setCursor(handle, xcursor.LeftPtr); err != nil {
		return errors.Wrap(err, "cursor")
	}
	if err := xproto.MapWindowChecked(c.conn, handle).Check(); err != nil {
		return errors.Wrap(err, "map window")
	}
	return nil
}

func (c *Conn) setCursor(win xproto.Window, cursor uint16) error {
	cur, err := xcursor.CreateCursor(c.xu, cursor)
	if err != nil {
		return err
	}
	mask := uint32(xproto.CwCursor)
	values := []uint32{uint32(cur)}
	return xproto.ChangeWindowAttributesChecked(c.conn, win, mask, values).Check()
}

// Add registers the window to receive events for handle.
func (c *Conn) Add(handle xproto.Window, w Window) error {
	return c.registry.Add(handle, w)
}

// DestroyWindow marks the window destroyed and asks the server to destroy
// it. The handle is removed when the destroy notification arrives, or right
// away if the request fails since no notification will follow.
func (c *Conn) DestroyWindow(handle xproto.Window) error {
	return destroyWindow(c.registry, handle, func() error {
		return xproto.DestroyWindowChecked(c.conn, handle).Check()
	})
}

func destroyWindow(reg *winreg.Registry[Window], handle xproto.Window, request func() error) error {
	if err := reg.MarkDestroyed(handle); err != nil {
		return err
	}
	if err := request(); err != nil {
		reg.Remove(handle)
		return errors.Wrap(err, "destroy window")
	}
	return nil
}

//----------

func (c *Conn) Registry() *winreg.Registry[Window] { return c.registry }
func (c *Conn) Keyboard() *xkb.Tracker             { return c.kbd }
func (c *Conn) XConn() *xgb.Conn                   { return c.conn }
func (c *Conn) Logger() *log.Logger                { return c.logger }
