//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (autostart *Autostart) enable() error {
	dir, err := autostart.entryDir()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	entry := desktopEntry(autostart.appName, autostart.execPath)
	if err := os.WriteFile(filepath.Join(dir, entrySlug(autostart.appName)+".desktop"), []byte(entry), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) disable() error {
	dir, err := autostart.entryDir()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	err = os.Remove(filepath.Join(dir, entrySlug(autostart.appName)+".desktop"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) entryDir() (string, error) {
	if autostart.dir != "" {
		return autostart.dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart"), nil
}

func desktopEntry(appName, execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Pomodoro interval timer
Exec=%s gui
X-GNOME-Autostart-enabled=true
Terminal=false
`, appName, execPath)
}
