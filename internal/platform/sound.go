package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"pomodoro/internal/core/model"
)

// Cue names the kind of completion being announced.
type Cue string

const (
	// CueWorkDone plays when a work period ends.
	CueWorkDone Cue = "work_done"
	// CueBreakDone plays when a break ends.
	CueBreakDone Cue = "break_done"
)

// CueFor returns the cue for the mode that just ended.
func CueFor(ended model.Mode) Cue {
	if ended.IsBreak() {
		return CueBreakDone
	}
	return CueWorkDone
}

type soundCommand struct {
	name string
	args []string
}

// SoundPlayer plays completion sounds with the OS audio tools and falls back
// to the terminal bell.
type SoundPlayer struct {
	run  func(ctx context.Context, name string, args ...string) error
	bell io.Writer
}

// NewSoundPlayer returns a SoundPlayer for the current OS.
func NewSoundPlayer() *SoundPlayer {
	return &SoundPlayer{
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		bell: os.Stdout,
	}
}

// Play tries each candidate command for cue until one succeeds.
func (player *SoundPlayer) Play(ctx context.Context, cue Cue) error {
	for _, candidate := range soundCandidates(cue) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := player.run(ctx, candidate.name, candidate.args...); err == nil {
			return nil
		}
	}
	if _, err := fmt.Fprint(player.bell, "\a"); err != nil {
		return fmt.Errorf("terminal bell: %w", err)
	}
	return nil
}
