package visualization

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens url in the user's default browser. It supports Linux
// (xdg-open), macOS (open), and Windows (cmd start).
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch runtime.GOOS {
	case "linux":
		name = "xdg-open"
	case "darwin":
		name = "open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return exec.Command(name, append(args, url)...).Start()
}
