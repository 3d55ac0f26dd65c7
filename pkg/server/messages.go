package server

import (
	"encoding/json"

	"github.com/vango-dev/crumbtrail/internal/errors"
)

// Live message types.
const (
	MessageNavigate = "navigate"
	MessageRender   = "render"
	MessageError    = "error"
)

// Message is the JSON envelope exchanged over the live endpoint.
//
// Client to server:
//
//	{"type":"navigate","path":"/menu"}
//
// Server to client:
//
//	{"type":"render","path":"/menu","html":"<nav ...>"}
//	{"type":"error","code":"E401","message":"Invalid navigation path"}
type Message struct {
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
	HTML    string `json:"html,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// DecodeMessage parses a client message. Unknown types and malformed JSON
// are reported as error E402.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, errors.New("E402").WithDetail("message is not valid JSON").Wrap(err)
	}
	switch msg.Type {
	case MessageNavigate:
		if msg.Path == "" {
			return Message{}, errors.New("E402").WithDetail("navigate needs a path")
		}
	default:
		return Message{}, errors.New("E402").WithDetailf("unknown message type %q", msg.Type)
	}
	return msg, nil
}

// errorMessage converts err into an error message for the client.
func errorMessage(err error) Message {
	msg := Message{Type: MessageError, Message: err.Error()}
	if ce, ok := errors.As(err); ok {
		msg.Code = ce.Code
		msg.Message = ce.Message
	}
	return msg
}
