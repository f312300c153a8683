package animation

import "time"

// DefaultConfig returns a 300 ms ease-out at roughly 60 frames per second.
func DefaultConfig() Config {
	return Config{
		Duration:      300 * time.Millisecond,
		FrameInterval: 16 * time.Millisecond,
		Easing:        EaseOutCubic,
	}
}

// Linear is the identity easing.
func Linear(t float64) float64 {
	return t
}

// EaseOutCubic decelerates towards the end.
func EaseOutCubic(t float64) float64 {
	inverse := 1 - t
	return 1 - inverse*inverse*inverse
}
