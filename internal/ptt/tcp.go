package ptt

import (
	"fmt"
	"net"

	"github.com/kb9vht/afsk25/internal/control"
	"github.com/kb9vht/afsk25/internal/modemerr"
)

// TCP delegates set/get to a remote controller over the §6 framed-JSON
// protocol, using the set_ptt/get_ptt commands.
type TCP struct {
	conn net.Conn
}

// DialTCP connects to a remote PTT controller at addr.
func DialTCP(addr string) (*TCP, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", modemerr.ErrConnection, addr, err)
	}
	return &TCP{conn: conn}, nil
}

func (t *TCP) Set(active bool) error {
	if err := control.WriteMessage(t.conn, control.Request{Command: "set_ptt", Value: active}); err != nil {
		return fmt.Errorf("%w: %v", modemerr.ErrConnection, err)
	}
	var resp control.Response
	if err := control.ReadMessage(t.conn, &resp); err != nil {
		return fmt.Errorf("%w: %v", modemerr.ErrConnection, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("%w: %s", modemerr.ErrProtocol, resp.Error)
	}
	return nil
}

func (t *TCP) Get() (bool, error) {
	if err := control.WriteMessage(t.conn, control.Request{Command: "get_ptt"}); err != nil {
		return false, fmt.Errorf("%w: %v", modemerr.ErrConnection, err)
	}
	var resp control.Response
	if err := control.ReadMessage(t.conn, &resp); err != nil {
		return false, fmt.Errorf("%w: %v", modemerr.ErrConnection, err)
	}
	if resp.Error != "" {
		return false, fmt.Errorf("%w: %s", modemerr.ErrProtocol, resp.Error)
	}
	b, _ := resp.Value.(bool)
	return b, nil
}

func (t *TCP) Close() error { return t.conn.Close() }
