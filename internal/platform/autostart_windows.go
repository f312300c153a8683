//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable() error {
	command := fmt.Sprintf(`"%s" gui`, strings.Trim(autostart.execPath, `"`))
	output, err := exec.Command("reg", "add", runKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", command, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostart *Autostart) disable() error {
	output, err := exec.Command("reg", "delete", runKey, "/v", autostart.appName, "/f").CombinedOutput()
	if err != nil {
		// reg reports a missing value as an error; treat it as already disabled.
		if strings.Contains(string(output), "unable to find") {
			return nil
		}
		return fmt.Errorf("disable autostart: reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
