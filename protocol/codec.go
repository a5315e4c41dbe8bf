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
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/zerr"
)

// ErrUnknownCodec is returned by CodecFor for unsupported names.
var ErrUnknownCodec = zerr.New("unknown codec")

// Codec encodes envelopes. The two implementations are JSON and Msgpack.
type Codec interface {
	Name() string
	encode(t Type, payload any) ([]byte, error)
	// decode splits an envelope into its type and still-encoded payload.
	decode(data []byte) (Type, []byte, error)
	unmarshal(payload []byte, v any) error
	isNull(payload []byte) bool
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// CodecFor returns the codec named json or msgpack.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	default:
		return nil, zerr.With(ErrUnknownCodec, "codec", name)
	}
}

// Encode serializes a message into an envelope.
func Encode(c Codec, msg Message) ([]byte, error) {
	return c.encode(msg.Type(), msg)
}

// Decode parses an envelope and validates its payload. Failures wrap
// ErrMalformedPayload, or ErrUnknownMessageType for unrecognized types.
func Decode(c Codec, data []byte) (Message, error) {
	t, payload, err := c.decode(data)
	if err != nil {
		return nil, errors.Join(ErrMalformedPayload, fmt.Errorf("envelope: %w", err))
	}
	msg, err := newMessage(t)
	if err != nil {
		return nil, err
	}
	if c.isNull(payload) {
		return nil, errors.Join(ErrMalformedPayload, fmt.Errorf("%s: missing payload", t))
	}
	if err := c.unmarshal(payload, msg); err != nil {
		return nil, errors.Join(ErrMalformedPayload, fmt.Errorf("%s: %w", t, err))
	}
	if err := msg.validate(); err != nil {
		return nil, errors.Join(ErrMalformedPayload, fmt.Errorf("%s: %w", t, err))
	}
	return msg, nil
}

type jsonCodec struct{}

type jsonEnvelope struct {
	MessageType Type            `json:"messageType"`
	Payload     json.RawMessage `json:"payload"`
}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) encode(t Type, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{MessageType: t, Payload: raw})
}

func (jsonCodec) decode(data []byte) (Type, []byte, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, err
	}
	return env.MessageType, env.Payload, nil
}

func (jsonCodec) unmarshal(payload []byte, v any) error {
	return json.Unmarshal(payload, v)
}

func (jsonCodec) isNull(payload []byte) bool {
	payload = bytes.TrimSpace(payload)
	return len(payload) == 0 || bytes.Equal(payload, []byte("null"))
}

type msgpackCodec struct{}

type msgpackEnvelope struct {
	MessageType Type               `msgpack:"messageType"`
	Payload     msgpack.RawMessage `msgpack:"payload"`
}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) encode(t Type, payload any) ([]byte, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(msgpackEnvelope{MessageType: t, Payload: raw})
}

func (msgpackCodec) decode(data []byte) (Type, []byte, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return "", nil, err
	}
	return env.MessageType, env.Payload, nil
}

func (msgpackCodec) unmarshal(payload []byte, v any) error {
	return msgpack.Unmarshal(payload, v)
}

func (msgpackCodec) isNull(payload []byte) bool {
	return len(payload) == 0 || (len(payload) == 1 && payload[0] == msgpackNil)
}

const msgpackNil = 0xc0
