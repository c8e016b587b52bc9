package cli

import (
	"path/filepath"
	"time"
)

// timeNow is swapped in tests that pin export file names
var timeNow = time.Now

func dirOf(path string) string {
	if d := filepath.Dir(path); d != "" {
		return d
	}
	return "."
}
