//go:build linux

package platform

const freedesktopSounds = "/usr/share/sounds/freedesktop/stereo/"

func soundCandidates(cue Cue) []soundCommand {
	name := "complete"
	if cue == CueBreakDone {
		name = "bell"
	}
	return []soundCommand{
		{"paplay", []string{freedesktopSounds + name + ".oga"}},
		{"pw-play", []string{freedesktopSounds + name + ".oga"}},
		{"aplay", []string{freedesktopSounds + name + ".wav"}},
	}
}
