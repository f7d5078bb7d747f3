package auth

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser points the user's default browser at url. It is the production
// value of credentialManager.openBrowser; tests replace it with a func that
// drives the loopback callback directly.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	return nil
}
