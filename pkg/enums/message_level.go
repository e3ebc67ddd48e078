package enums

import "fmt"

// MessageLevel classifies user-facing notices returned with responses.
type MessageLevel string

const (
	MessageLevelInfo    MessageLevel = "info"
	MessageLevelSuccess MessageLevel = "success"
	MessageLevelWarning MessageLevel = "warning"
	MessageLevelError   MessageLevel = "error"
)

var validMessageLevels = []MessageLevel{
	MessageLevelInfo,
	MessageLevelSuccess,
	MessageLevelWarning,
	MessageLevelError,
}

// String implements fmt.Stringer.
func (m MessageLevel) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MessageLevel.
func (m MessageLevel) IsValid() bool {
	for _, candidate := range validMessageLevels {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageLevel converts raw input into a MessageLevel.
func ParseMessageLevel(value string) (MessageLevel, error) {
	for _, candidate := range validMessageLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message level %q", value)
}
