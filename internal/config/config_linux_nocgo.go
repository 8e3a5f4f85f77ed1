//go:build linux && !cgo

package config

import (
	"fmt"

	"github.com/kb9vht/afsk25/internal/ptt"
)

func openLibraryPTT(path string) (ptt.Controller, error) {
	return nil, fmt.Errorf("config: ptt_controls type \"library\" requires a cgo-enabled build")
}
