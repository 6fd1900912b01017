// Package launch opens URLs with the platform's default handler.
//
// Sites open in the default browser; playback URLs are handed to whatever
// the desktop associates with them (browser or a registered media app).
package launch

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens a URL externally. The production implementation shells out
// to the platform opener; tests substitute a fake.
type Launcher interface {
	Open(url string) error
}

// System launches URLs with xdg-open, open, or rundll32 depending on GOOS.
type System struct{}

// Open hands the URL to the platform opener without waiting for the target
// application to exit.
func (System) Open(url string) error {
	name, args := openerCommand(runtime.GOOS, url)
	if name == "" {
		return fmt.Errorf("no URL opener for platform %s", runtime.GOOS)
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	slog.Debug("url opened", "url", url)
	return nil
}

// openerCommand returns the platform opener invocation for a URL.
func openerCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}
	default:
		return "", nil
	}
}
