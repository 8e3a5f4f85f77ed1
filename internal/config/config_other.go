//go:build !linux

package config

import "github.com/kb9vht/afsk25/internal/ptt"

// buildPlatformPTT has nothing to offer on non-Linux builds: "serial" and
// "library" both require OS facilities (TIOCMGET/TIOCMSET, dlopen) that
// internal/ptt only implements under linux build tags.
func buildPlatformPTT(p PTTControl) (ptt.Controller, bool, error) {
	return nil, false, nil
}
