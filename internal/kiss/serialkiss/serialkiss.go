// Package serialkiss serves the KISS protocol over a serial port, the
// role of the teacher's kissserial.go — the same framing as tcpkiss, but
// for a single directly-attached client instead of a TCP listener's many.
package serialkiss

import (
	"bufio"

	"github.com/pkg/term"

	"github.com/kb9vht/afsk25/internal/kiss"
)

// Handler is invoked for every KISS data frame (command 0x0) the attached
// client sends, with the frame's port number and its payload.
type Handler func(port int, payload []byte)

// Port wraps an open serial port for frame-at-a-time KISS exchange.
type Port struct {
	port *term.Term
	dec  *kiss.Decoder
}

// Open opens device at baud for KISS framing.
func Open(device string, baud int) (*Port, error) {
	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, err
	}
	return &Port{port: t, dec: kiss.NewDecoder(bufio.NewReader(t))}, nil
}

// Serve reads frames until the port errors (typically on Close), handing
// every data frame to handle.
func (p *Port) Serve(handle Handler) error {
	for {
		frame, err := p.dec.Next()
		if err != nil {
			return err
		}
		if frame.Command == kiss.CmdDataFrame && handle != nil {
			handle(frame.Port, frame.Payload)
		}
	}
}

// Send KISS-encodes payload as a data frame on port and writes it out.
func (p *Port) Send(port int, payload []byte) error {
	_, err := p.port.Write(kiss.Encode(port, kiss.CmdDataFrame, payload))
	return err
}

// Close closes the underlying serial port, unblocking a pending Serve.
func (p *Port) Close() error {
	return p.port.Close()
}
