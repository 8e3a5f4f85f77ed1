//go:build linux

package config

import (
	"fmt"

	"github.com/kb9vht/afsk25/internal/ptt"
)

// buildPlatformPTT handles the ptt_controls types that need a Linux-only
// (and, for "library", cgo) constructor: "serial" and "library".
func buildPlatformPTT(p PTTControl) (ptt.Controller, bool, error) {
	switch p.Type {
	case "serial":
		line := ptt.LineRTS
		if p.Line == "dtr" {
			line = ptt.LineDTR
		}
		ctrl, err := ptt.OpenSerial(p.Device, p.Baud, line, p.Inverted)
		return ctrl, true, err
	case "library":
		ctrl, err := openLibraryPTT(p.LibraryPath)
		return ctrl, true, err
	default:
		return nil, false, fmt.Errorf("config: %q is not a platform PTT type", p.Type)
	}
}
