package platform

import (
	"errors"
	"strings"
)

// ErrAutostartUnconfigured is returned when the app name or executable path is missing.
var ErrAutostartUnconfigured = errors.New("autostart: app name or executable path is empty")

// Autostart registers the application to run at login.
type Autostart struct {
	appName  string
	execPath string
	// dir overrides the OS location the login entry is written to.
	dir string
}

// NewAutostart returns an Autostart for the given executable.
func NewAutostart(appName, execPath string) *Autostart {
	return &Autostart{appName: strings.TrimSpace(appName), execPath: execPath}
}

// Apply enables or disables launching at login.
func (autostart *Autostart) Apply(enabled bool) error {
	if autostart.appName == "" {
		return ErrAutostartUnconfigured
	}
	if !enabled {
		return autostart.disable()
	}
	if autostart.execPath == "" {
		return ErrAutostartUnconfigured
	}
	return autostart.enable()
}

func entrySlug(appName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(appName)), " ", "-")
}
