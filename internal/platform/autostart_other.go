//go:build !darwin && !linux && !windows

package platform

import "errors"

var errAutostartUnsupported = errors.New("autostart: unsupported platform")

func (autostart *Autostart) enable() error { return errAutostartUnsupported }

func (autostart *Autostart) disable() error { return nil }
