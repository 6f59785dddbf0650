package xutil

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Tags can be used with: `loadAtoms:"atomname"`.
// "st" should be a pointer to a struct with xproto.Atom fields.
// "onlyIfExists" asks the x server to assign a value only if the atom exists.
func LoadAtoms(conn *xgb.Conn, st any, onlyIfExists bool) error {
	val := reflect.Indirect(reflect.ValueOf(st))
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("loadatoms: not a struct pointer: %T", st)
	}
	typ := val.Type()

	// request all, then read replies
	var cookies []xproto.InternAtomCookie
	for i := 0; i < typ.NumField(); i++ {
		name := AtomFieldName(typ.Field(i))
		cookie := xproto.InternAtom(conn, onlyIfExists, uint16(len(name)), name)
		cookies = append(cookies, cookie)
	}
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return fmt.Errorf("loadatoms: %v: %w", AtomFieldName(typ.Field(i)), err)
		}
		val.Field(i).Set(reflect.ValueOf(reply.Atom))
	}
	return nil
}

func AtomFieldName(sf reflect.StructField) string {
	if s := sf.Tag.Get("loadAtoms"); s != "" {
		return s
	}
	return sf.Name
}

//----------

// AtomNames caches atom names for diagnostics. Lookups that fail return
// an empty string and are not retried.
type AtomNames struct {
	xu *xgbutil.XUtil

	mu sync.RWMutex
	m  map[xproto.Atom]string
}

func NewAtomNames(xu *xgbutil.XUtil) *AtomNames {
	return &AtomNames{xu: xu, m: map[xproto.Atom]string{}}
}

// Preload stores known names without asking the server.
func (an *AtomNames) Preload(st any) {
	val := reflect.Indirect(reflect.ValueOf(st))
	typ := val.Type()
	an.mu.Lock()
	defer an.mu.Unlock()
	for i := 0; i < typ.NumField(); i++ {
		if a, ok := val.Field(i).Interface().(xproto.Atom); ok {
			an.m[a] = AtomFieldName(typ.Field(i))
		}
	}
}

func (an *AtomNames) AtomName(a xproto.Atom) string {
	an.mu.RLock()
	name, ok := an.m[a]
	an.mu.RUnlock()
	if ok {
		return name
	}
	if an.xu == nil {
		return ""
	}
	name, err := xprop.AtomName(an.xu, a)
	if err != nil {
		name = ""
	}
	an.mu.Lock()
	an.m[a] = name
	an.mu.Unlock()
	return name
}
