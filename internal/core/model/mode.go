package model

import "fmt"

// Mode is the active interval type.
type Mode int

const (
	ModeWork Mode = iota
	ModeShortBreak
	ModeLongBreak
)

var modeNames = [...]string{
	ModeWork:       "work",
	ModeShortBreak: "short_break",
	ModeLongBreak:  "long_break",
}

// Modes lists every mode in manual cycling order.
func Modes() []Mode {
	return []Mode{ModeWork, ModeShortBreak, ModeLongBreak}
}

// Valid reports whether mode is one of the declared modes.
func (mode Mode) Valid() bool {
	return mode >= ModeWork && mode <= ModeLongBreak
}

// String returns the persisted tag of the mode.
func (mode Mode) String() string {
	if !mode.Valid() {
		return fmt.Sprintf("mode(%d)", int(mode))
	}
	return modeNames[mode]
}

// Next returns the mode selected by a manual switch.
func (mode Mode) Next() Mode {
	switch mode {
	case ModeWork:
		return ModeShortBreak
	case ModeShortBreak:
		return ModeLongBreak
	default:
		return ModeWork
	}
}

// IsBreak reports whether mode is one of the break modes.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// ParseMode converts a persisted tag back to a Mode.
// Tags written by older builds ("shortBreak", "longBreak") are accepted too.
func ParseMode(value string) (Mode, error) {
	switch value {
	case "work":
		return ModeWork, nil
	case "short_break", "shortBreak":
		return ModeShortBreak, nil
	case "long_break", "longBreak":
		return ModeLongBreak, nil
	}
	return ModeWork, fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

// MarshalText implements encoding.TextMarshaler.
func (mode Mode) MarshalText() ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	return []byte(mode.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*mode = parsed
	return nil
}
