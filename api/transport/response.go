package transport

import (
	"encoding/json"

	"github.com/fastygo/taskbox/domain"
)

// ServerError is the only message clients see for unclassified failures.
const ServerError = "Server Error"

// Message is the body of every error response and of acknowledgements.
type Message struct {
	Msg    string              `json:"msg"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

// NewMessage returns a message body.
func NewMessage(msg string) Message {
	return Message{Msg: msg}
}

// NewValidation returns a message listing every rejected field.
func NewValidation(msg string, fields []domain.FieldError) Message {
	return Message{Msg: msg, Errors: fields}
}

// Bytes returns the JSON representation (best-effort).
func (m Message) Bytes() []byte {
	out, err := json.Marshal(m)
	if err != nil {
		return []byte(`{"msg":"` + ServerError + `"}`)
	}
	return out
}

func (m Message) String() string {
	return string(m.Bytes())
}
