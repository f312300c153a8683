//go:build windows

package platform

func soundCandidates(cue Cue) []soundCommand {
	sound := "Asterisk"
	if cue == CueBreakDone {
		sound = "Exclamation"
	}
	return []soundCommand{
		{"powershell", []string{"-c", "[System.Media.SystemSounds]::" + sound + ".Play()"}},
		{"powershell", []string{"-c", "[System.Media.SystemSounds]::Beep.Play()"}},
	}
}
