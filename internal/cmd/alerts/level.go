package alerts

import (
	"fmt"

	"github.com/ethan-huo/env-tool/internal/cmd/emoji"
)

// Level is the severity of an alert. Lower is more severe.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

const resetColor = "\033[0m"

type levelStyle struct {
	name  string
	icon  string
	color string
}

var levelStyles = map[Level]levelStyle{
	LevelError:   {name: "error", icon: emoji.Error, color: "\033[31m"},
	LevelWarning: {name: "warning", icon: emoji.Warning, color: "\033[33m"},
	LevelInfo:    {name: "info", icon: emoji.Info, color: "\033[36m"},
	LevelSuccess: {name: "success", icon: emoji.Success, color: "\033[32m"},
}

// String returns the level name used in structured output.
func (l Level) String() string {
	if s, ok := levelStyles[l]; ok {
		return s.name
	}
	return fmt.Sprintf("unknown(%d)", l)
}

// Icon returns the symbol printed before a text alert.
func (l Level) Icon() string {
	if s, ok := levelStyles[l]; ok {
		return s.icon
	}
	return emoji.Unknown
}

// Color returns the ANSI color for the level.
func (l Level) Color() string {
	if s, ok := levelStyles[l]; ok {
		return s.color
	}
	return resetColor
}

// ResetColor returns the ANSI reset code.
func ResetColor() string {
	return resetColor
}
