//go:build linux && cgo

package ptt

/*
#include <dlfcn.h>
#include <stdlib.h>

typedef int (*ptt_init_fn)(void *callback);
typedef int (*ptt_uninit_fn)(void);
typedef int (*ptt_set_fn)(int enable);
typedef int (*ptt_get_fn)(int *out);

static int call_init(ptt_init_fn fn) { return fn(0); }
static int call_uninit(ptt_uninit_fn fn) { return fn(); }
static int call_set(ptt_set_fn fn, int enable) { return fn(enable); }
static int call_get(ptt_get_fn fn, int *out) { return fn(out); }
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// Library delegates PTT to an externally loaded shared object exposing
// C-linkage init/uninit/set_ptt/get_ptt functions (§4.10/§6). It is the one
// legitimately cgo-backed PTT variant, mirroring the teacher's own style of
// wrapping an external C ABI via dlopen/dlsym rather than a pure Go port
// (there being no Go equivalent for a dynamically loaded, caller-supplied
// shared object).
type Library struct {
	handle unsafe.Pointer
	setFn  C.ptt_set_fn
	getFn  C.ptt_get_fn
	uninit C.ptt_uninit_fn
}

// OpenLibrary dlopens path and resolves init/uninit/set_ptt/get_ptt,
// calling init(NULL) (no event callback) before returning.
func OpenLibrary(path string) (*Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW)
	if handle == nil {
		return nil, fmt.Errorf("%w: dlopen %s failed: %s", modemerr.ErrDeviceOpenFailed, path, C.GoString(C.dlerror()))
	}

	initSym, err := resolve(handle, "init")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	uninitSym, err := resolve(handle, "uninit")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	setSym, err := resolve(handle, "set_ptt")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	getSym, err := resolve(handle, "get_ptt")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}

	initFn := C.ptt_init_fn(initSym)
	if rc := C.call_init(initFn); rc != 0 {
		C.dlclose(handle)
		return nil, fmt.Errorf("%w: library init() returned %d", modemerr.ErrDeviceOpenFailed, int(rc))
	}

	return &Library{
		handle: handle,
		setFn:  C.ptt_set_fn(setSym),
		getFn:  C.ptt_get_fn(getSym),
		uninit: C.ptt_uninit_fn(uninitSym),
	}, nil
}

func resolve(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.dlerror() // clear any pending error
	sym := C.dlsym(handle, cname)
	if sym == nil {
		if errStr := C.dlerror(); errStr != nil {
			return nil, fmt.Errorf("%w: dlsym %s failed: %s", modemerr.ErrDeviceOpenFailed, name, C.GoString(errStr))
		}
	}
	return sym, nil
}

func (l *Library) Set(active bool) error {
	enable := C.int(0)
	if active {
		enable = 1
	}
	if rc := C.call_set(l.setFn, enable); rc != 0 {
		return fmt.Errorf("%w: library set_ptt(%d) returned %d", modemerr.ErrDeviceLost, int(enable), int(rc))
	}
	return nil
}

func (l *Library) Get() (bool, error) {
	var out C.int
	if rc := C.call_get(l.getFn, &out); rc != 0 {
		return false, fmt.Errorf("%w: library get_ptt returned %d", modemerr.ErrDeviceLost, int(rc))
	}
	return out != 0, nil
}

func (l *Library) Close() error {
	if rc := C.call_uninit(l.uninit); rc != 0 {
		return fmt.Errorf("%w: library uninit() returned %d", modemerr.ErrDeviceLost, int(rc))
	}
	C.dlclose(l.handle)
	return nil
}
