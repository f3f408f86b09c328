package state

import (
	"fmt"
)

// CommandKind identifies a session command.
type CommandKind int

const (
	CmdAdvanceTime CommandKind = iota
	CmdBeginLatitudeEntry
	CmdBeginLongitudeEntry
	CmdEnterDigit
	CmdCommitEntry
	CmdBackspace
	CmdCancelEntry
	CmdSetRate
	CmdTogglePause
	CmdResetToNow
)

var commandNames = map[CommandKind]string{
	CmdAdvanceTime:         "advance_time",
	CmdBeginLatitudeEntry:  "begin_latitude_entry",
	CmdBeginLongitudeEntry: "begin_longitude_entry",
	CmdEnterDigit:          "enter_digit",
	CmdCommitEntry:         "commit_entry",
	CmdBackspace:           "backspace",
	CmdCancelEntry:         "cancel_entry",
	CmdSetRate:             "set_rate",
	CmdTogglePause:         "toggle_pause",
	CmdResetToNow:          "reset_to_now",
}

// String returns the command name used in logs and metrics.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is one discrete input to the session, produced by the key decoder.
type Command struct {
	Kind  CommandKind
	Delta float64 // seconds, for CmdAdvanceTime
	Digit rune    // for CmdEnterDigit
	Rate  float64 // for CmdSetRate
}

// AdvanceTime moves the epoch by a signed number of seconds.
func AdvanceTime(delta float64) Command {
	return Command{Kind: CmdAdvanceTime, Delta: delta}
}

// BeginLatitudeEntry starts typing a latitude in degrees.
func BeginLatitudeEntry() Command {
	return Command{Kind: CmdBeginLatitudeEntry}
}

// BeginLongitudeEntry starts typing a longitude in degrees.
func BeginLongitudeEntry() Command {
	return Command{Kind: CmdBeginLongitudeEntry}
}

// EnterDigit appends a character to the entry buffer.
func EnterDigit(r rune) Command {
	return Command{Kind: CmdEnterDigit, Digit: r}
}

// CommitEntry parses the buffer and applies it.
func CommitEntry() Command {
	return Command{Kind: CmdCommitEntry}
}

// Backspace deletes the last buffered character.
func Backspace() Command {
	return Command{Kind: CmdBackspace}
}

// CancelEntry abandons the entry in progress.
func CancelEntry() Command {
	return Command{Kind: CmdCancelEntry}
}

// SetRate changes the playback multiplier.
func SetRate(rate float64) Command {
	return Command{Kind: CmdSetRate, Rate: rate}
}

// TogglePause pauses or resumes playback.
func TogglePause() Command {
	return Command{Kind: CmdTogglePause}
}

// ResetToNow jumps the epoch to wall-clock now.
func ResetToNow() Command {
	return Command{Kind: CmdResetToNow}
}
