package actions

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
)

// SystemBrowser opens URLs via the platform's URL handler command.
type SystemBrowser struct{}

// Open launches the default browser for url.
func (SystemBrowser) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return fmt.Errorf("actions: open url not supported on %s", runtime.GOOS)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("actions: open url: %w", err)
	}
	return nil
}

// SystemClipboard writes text via pbcopy on macOS and xclip or xsel on
// Linux (xsel as fallback).
type SystemClipboard struct{}

// Write puts text on the system clipboard.
func (SystemClipboard) Write(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return writeWithCommand(text, "pbcopy")
	case "linux":
		if err := writeWithCommand(text, "xclip", "-selection", "clipboard"); err == nil {
			return nil
		}
		if err := writeWithCommand(text, "xsel", "--clipboard", "--input"); err != nil {
			return fmt.Errorf("actions: copy (tried xclip and xsel): %w", err)
		}
		return nil
	default:
		return fmt.Errorf("actions: clipboard not supported on %s", runtime.GOOS)
	}
}

func writeWithCommand(text string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader([]byte(text))
	return cmd.Run()
}
