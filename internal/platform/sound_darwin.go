//go:build darwin

package platform

func soundCandidates(cue Cue) []soundCommand {
	if cue == CueBreakDone {
		return []soundCommand{
			{"afplay", []string{"/System/Library/Sounds/Submarine.aiff"}},
			{"afplay", []string{"/System/Library/Sounds/Ping.aiff"}},
		}
	}
	return []soundCommand{
		{"afplay", []string{"/System/Library/Sounds/Glass.aiff"}},
		{"afplay", []string{"/System/Library/Sounds/Tink.aiff"}},
	}
}
