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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// MaxFrameSize bounds the Content-Length the reader accepts.
const MaxFrameSize = 512 << 20

// ErrInvalidFrame is returned for frames without a usable Content-Length.
var ErrInvalidFrame = zerr.New("invalid frame")

// ReadFrame reads one Content-Length framed payload. It returns io.EOF when
// the stream ends cleanly between frames.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	headers := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			if headers == 0 && line == "" {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if headers == 0 {
				continue
			}
			break
		}
		headers++
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return nil, zerr.With(ErrInvalidFrame, "contentLength", value)
			}
			contentLength = n
		}
	}
	if contentLength < 0 {
		return nil, zerr.With(ErrInvalidFrame, "reason", "missing Content-Length header")
	}
	if contentLength > MaxFrameSize {
		return nil, zerr.With(ErrInvalidFrame, "contentLength", strconv.Itoa(contentLength))
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes payload with its Content-Length header in one write.
func WriteFrame(w io.Writer, payload []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	frame := make([]byte, 0, len(header)+len(payload))
	frame = append(frame, header...)
	frame = append(frame, payload...)
	_, err := w.Write(frame)
	return err
}

// Conn reads and writes messages over a byte stream. Read must be called
// from one goroutine; Write is safe for concurrent use.
type Conn struct {
	codec  Codec
	r      *bufio.Reader
	w      io.Writer
	closer io.Closer
	mu     sync.Mutex
}

// NewConn creates a connection. If r implements io.Closer, Close closes it.
func NewConn(r io.Reader, w io.Writer, codec Codec) *Conn {
	c := &Conn{codec: codec, r: bufio.NewReader(r), w: w}
	if closer, ok := r.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

// Codec returns the connection's codec.
func (c *Conn) Codec() Codec {
	return c.codec
}

// Read returns the next message, or io.EOF when the peer closed the stream.
func (c *Conn) Read() (Message, error) {
	frame, err := ReadFrame(c.r)
	if err != nil {
		return nil, err
	}
	return Decode(c.codec, frame)
}

// Write sends one message.
func (c *Conn) Write(msg Message) error {
	data, err := Encode(c.codec, msg)
	if err != nil {
		return zerr.Wrap(err, "failed to encode "+string(msg.Type()))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteFrame(c.w, data)
}

// Close closes the read side, unblocking a pending Read where the
// underlying reader supports it.
func (c *Conn) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
