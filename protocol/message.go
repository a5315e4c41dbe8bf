/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package protocol defines the messages exchanged between the worker and its
// parent process and how they are framed on the wire.
//
// Every message travels as an envelope {messageType, payload}. Envelopes are
// encoded with a Codec (JSON or msgpack) and framed with a Content-Length
// header.
package protocol

import (
	"go.trai.ch/zerr"

	"bennypowers.dev/tsworker/compiler"
	"bennypowers.dev/tsworker/resolution"
	"bennypowers.dev/tsworker/vfs"
)

// Type is the messageType of an envelope.
type Type string

const (
	TypeInit     Type = "init"
	TypeCompile  Type = "compile"
	TypeProgress Type = "progress"
	TypeError    Type = "error"
)

var (
	// ErrMalformedPayload is returned for payloads that do not decode into
	// their message type or miss required fields.
	ErrMalformedPayload = zerr.New("malformed payload")

	// ErrUnknownMessageType is returned for envelopes whose messageType is
	// not one of init, compile, progress or error.
	ErrUnknownMessageType = zerr.New("unknown message type")
)

// Message is one of *Init, *Compile, *Progress or *Error.
type Message interface {
	Type() Type
	validate() error
}

// Init configures the worker. It is accepted once.
type Init struct {
	CompilerOptions compiler.Options `json:"compilerOptions" msgpack:"compilerOptions"`
	CompilerInfo    compiler.Info    `json:"compilerInfo" msgpack:"compilerInfo"`
}

// Compile carries the complete set of files and resolutions for one recheck.
type Compile struct {
	Files           map[string]vfs.File           `json:"files" msgpack:"files"`
	ResolutionCache map[string]*resolution.Module `json:"resolutionCache" msgpack:"resolutionCache"`
}

// Progress brackets each recheck cycle.
type Progress struct {
	InProgress bool `json:"inProgress" msgpack:"inProgress"`
}

// Error reports a failure that terminates the worker when Fatal is set.
type Error struct {
	Message string `json:"message" msgpack:"message"`
	Fatal   bool   `json:"fatal" msgpack:"fatal"`
}

func (*Init) Type() Type     { return TypeInit }
func (*Compile) Type() Type  { return TypeCompile }
func (*Progress) Type() Type { return TypeProgress }
func (*Error) Type() Type    { return TypeError }

func (m *Init) validate() error {
	if m.CompilerOptions == nil {
		return compiler.ErrMissingOptions
	}
	if err := m.CompilerOptions.Validate(); err != nil {
		return err
	}
	return m.CompilerInfo.Validate()
}

// validate requires files; a missing resolutionCache is an empty one.
func (m *Compile) validate() error {
	if m.Files == nil {
		return zerr.With(ErrMalformedPayload, "field", "files")
	}
	if m.ResolutionCache == nil {
		m.ResolutionCache = map[string]*resolution.Module{}
	}
	return nil
}

func (*Progress) validate() error { return nil }

func (m *Error) validate() error {
	if m.Message == "" {
		return zerr.With(ErrMalformedPayload, "field", "message")
	}
	return nil
}

// newMessage returns an empty message of the given type.
func newMessage(t Type) (Message, error) {
	switch t {
	case TypeInit:
		return &Init{}, nil
	case TypeCompile:
		return &Compile{}, nil
	case TypeProgress:
		return &Progress{}, nil
	case TypeError:
		return &Error{}, nil
	default:
		return nil, zerr.With(ErrUnknownMessageType, "messageType", string(t))
	}
}
