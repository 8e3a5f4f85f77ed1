//go:build linux && cgo

package config

import "github.com/kb9vht/afsk25/internal/ptt"

func openLibraryPTT(path string) (ptt.Controller, error) {
	return ptt.OpenLibrary(path)
}
