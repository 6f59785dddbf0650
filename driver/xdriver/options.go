package xdriver

import (
	"log"
	"os"
)

type Options struct {
	Display string // empty uses $DISPLAY, then ":0"

	Logger      *log.Logger // defaults to stderr
	Debug       bool        // log events, except motion
	DebugMotion bool        // also log motion events

	// A destroy notification for a window not marked destroyed is an error
	// instead of being accepted.
	StrictDestroy bool
}

func (opt *Options) logger() *log.Logger {
	if opt.Logger != nil {
		return opt.Logger
	}
	return log.New(os.Stderr, "xdriver: ", log.Lmsgprefix|log.LstdFlags)
}
