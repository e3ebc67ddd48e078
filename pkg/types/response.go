package types

import "github.com/angelmondragon/storefront/pkg/enums"

type SuccessEnvelope struct {
	Data     any       `json:"data"`
	Messages []Message `json:"messages,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error    APIError  `json:"error"`
	Messages []Message `json:"messages,omitempty"`
}

// Message is a one-shot user notice rendered next to the response payload.
type Message struct {
	Level enums.MessageLevel `json:"level"`
	Text  string             `json:"text"`
}

func Success(text string) Message {
	return Message{Level: enums.MessageLevelSuccess, Text: text}
}

func Warning(text string) Message {
	return Message{Level: enums.MessageLevelWarning, Text: text}
}

func Info(text string) Message {
	return Message{Level: enums.MessageLevelInfo, Text: text}
}
