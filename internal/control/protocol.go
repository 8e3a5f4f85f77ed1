// Package control implements the length-prefixed JSON-over-TCP protocol of
// §6 shared by the stream-control server and the TCP PTT transport: each
// message is a 4-byte big-endian length followed by a UTF-8 JSON body.
//
// Grounded on the teacher's nettnc.go/agwpe.go framed-TCP style (length
// prefix, one connection per client, simple request/response turn-taking),
// generalized from AGWPE's fixed binary header to this spec's JSON
// envelope.
package control

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Request is a client-to-server message: a named command with an optional
// argument.
type Request struct {
	Command string `json:"command"`
	Value   any    `json:"value,omitempty"`
}

// Response is a server-to-client message: either a result value or an
// error string, never both.
type Response struct {
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteMessage frames v as length-prefixed JSON and writes it to w.
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// ReadMessage reads one length-prefixed JSON message from r and unmarshals
// it into v.
func ReadMessage(r io.Reader, v any) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	n := binary.BigEndian.Uint32(header[:])
	const maxMessage = 16 << 20
	if n > maxMessage {
		return fmt.Errorf("control: message of %d bytes exceeds %d byte limit", n, maxMessage)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}
