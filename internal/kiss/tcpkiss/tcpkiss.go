// Package tcpkiss serves the KISS protocol over a TCP listener: one
// goroutine per client connection, each reading a stream of frames, across
// however many clients are attached, exactly the role of the teacher's
// kissnet.go.
package tcpkiss

import (
	"bufio"
	"net"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/kb9vht/afsk25/internal/kiss"
)

// Handler is invoked for every KISS data frame (command 0x0) a client
// sends, with the frame's port number and its payload (an AX.25 frame with
// FCS already stripped, per KISS convention).
type Handler func(port int, payload []byte)

// Listener accepts KISS-over-TCP client connections and fans out frames
// written via Broadcast to all of them, while handing every client-sent
// data frame to Handle.
type Listener struct {
	listener net.Listener
	log      *log.Logger
	Handle   Handler

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New wraps an already-bound listener.
func New(listener net.Listener, handle Handler, logger *log.Logger) *Listener {
	return &Listener{
		listener: listener,
		log:      logger.With("component", "kiss/tcp"),
		Handle:   handle,
		conns:    make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections until the listener is closed, handling each on
// its own goroutine.
func (l *Listener) Serve() error {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.conns[conn] = struct{}{}
		l.mu.Unlock()
		go l.handle(conn)
	}
}

func (l *Listener) handle(conn net.Conn) {
	defer func() {
		l.mu.Lock()
		delete(l.conns, conn)
		l.mu.Unlock()
		conn.Close()
	}()

	dec := kiss.NewDecoder(bufio.NewReader(conn))
	for {
		frame, err := dec.Next()
		if err != nil {
			return
		}
		if frame.Command == kiss.CmdDataFrame && l.Handle != nil {
			l.Handle(frame.Port, frame.Payload)
		}
	}
}

// Broadcast KISS-encodes payload as a data frame on port and writes it to
// every currently connected client, for the receive-to-client direction.
func (l *Listener) Broadcast(port int, payload []byte) {
	encoded := kiss.Encode(port, kiss.CmdDataFrame, payload)

	l.mu.Lock()
	defer l.mu.Unlock()
	for conn := range l.conns {
		if _, err := conn.Write(encoded); err != nil {
			l.log.Warn("write to KISS client failed", "err", err)
		}
	}
}

// Close stops accepting new connections; connections already accepted are
// closed as their handler goroutines return from a read error.
func (l *Listener) Close() error {
	return l.listener.Close()
}
