package tcpkiss

import (
	"bufio"
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kb9vht/afsk25/internal/kiss"
)

func TestListener_deliversClientFrameToHandler(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	received := make(chan []byte, 1)
	kl := New(listener, func(port int, payload []byte) {
		received <- payload
	}, log.Default())
	go kl.Serve()
	defer kl.Close()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write(kiss.Encode(0, kiss.CmdDataFrame, []byte("hello")))
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, []byte("hello"), got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler to fire")
	}
}

func TestListener_broadcastsToConnectedClients(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	kl := New(listener, nil, log.Default())
	go kl.Serve()
	defer kl.Close()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	// Give the accept loop a moment to register the connection.
	time.Sleep(50 * time.Millisecond)
	kl.Broadcast(0, []byte("world"))

	buf := make([]byte, 64)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)

	dec := kiss.NewDecoder(bufio.NewReader(bytes.NewReader(buf[:n])))
	frame, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), frame.Payload)
}
