package server

import (
	stderrors "errors"

	"github.com/vango-dev/viewlets/internal/errors"
)

// Client message types.
const (
	MsgShow    = "show"
	MsgClick   = "click"
	MsgEdit    = "edit"
	MsgSet     = "set"
	MsgRefresh = "refresh"
)

// Server push types.
const (
	PushHTML     = "html"
	PushUpdate   = "update"
	PushConflict = "conflict"
	PushError    = "error"
)

// Message is a client to server message.
type Message struct {
	Type    string `json:"type"`
	Viewlet string `json:"viewlet,omitempty"`
	Target  string `json:"target,omitempty"`
	Key     string `json:"key,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// Push is a server to client message.
type Push struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Viewlet string `json:"viewlet,omitempty"`
	Key     string `json:"key,omitempty"`
	Value   any    `json:"value,omitempty"`
	HTML    string `json:"html,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// errorPush converts err into an error push.
func errorPush(err error) Push {
	p := Push{Type: PushError, Error: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		p.Code = e.Code
	}
	return p
}
