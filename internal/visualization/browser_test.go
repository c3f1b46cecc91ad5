package visualization

import (
	"runtime"
	"testing"
)

func TestOpenBrowserPlatformCoverage(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		// Covered platforms; the command itself is not run in tests.
	default:
		if err := OpenBrowser("http://127.0.0.1:0"); err == nil {
			t.Errorf("OpenBrowser() on %s = nil error, want unsupported platform error", runtime.GOOS)
		}
	}
}
