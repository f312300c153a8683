// Package format holds display helpers shared by the desktop and terminal front-ends.
package format

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"pomodoro/internal/core/model"
)

// Remaining renders a duration as mm:ss. Minutes are not wrapped at an hour,
// partial seconds are dropped and negative values render as 00:00.
func Remaining(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ModeTitle is the short label of a mode.
func ModeTitle(mode model.Mode) string {
	switch mode {
	case model.ModeWork:
		return "Work"
	case model.ModeShortBreak:
		return "Short break"
	case model.ModeLongBreak:
		return "Long break"
	default:
		return mode.String()
	}
}

// Status is the status line: the mode prompt followed by the number of
// completed work periods once there is at least one.
func Status(mode model.Mode, completed int) string {
	var text string
	switch mode {
	case model.ModeWork:
		text = "Work time - focus!"
	case model.ModeShortBreak:
		text = "Short break - relax a little"
	case model.ModeLongBreak:
		text = "Long break - rest well before the next round"
	default:
		text = ModeTitle(mode)
	}
	if completed > 0 {
		text += fmt.Sprintf(" (%d %s)", completed, plural(completed, "pomodoro", "pomodoros"))
	}
	return text
}

// CompletionMessage is the notification body after a period ends.
func CompletionMessage(ended, next model.Mode) string {
	if ended == model.ModeWork {
		return fmt.Sprintf("Work period finished. Time for a %s.", strings.ToLower(ModeTitle(next)))
	}
	return "Break is over. Back to work!"
}

// ModeColor is the accent colour of a mode.
func ModeColor(mode model.Mode) color.NRGBA {
	switch mode {
	case model.ModeShortBreak:
		return color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	case model.ModeLongBreak:
		return color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
	default:
		return color.NRGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff}
	}
}

// ModeHex is ModeColor as a #rrggbb string.
func ModeHex(mode model.Mode) string {
	c := ModeColor(mode)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
