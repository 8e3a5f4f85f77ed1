package control

import (
	"errors"
	"net"

	"github.com/charmbracelet/log"

	"github.com/kb9vht/afsk25/internal/modemerr"
)

// Target is whatever a control connection manipulates: a named audio
// stream's sink, or a PTT controller. Implementations answer the fixed
// command set of §6.
type Target interface {
	Name() string
	Type() string
	Volume() (float64, error)
	SetVolume(v float64) error
	SampleRate() (int, error)
	Channels() (int, error)
	Start() error
	Stop() error
	SetPTT(active bool) error
	GetPTT() (bool, error)
}

// Server accepts TCP connections and dispatches the §6 framed-JSON
// command set against a Target, each connection handled concurrently on
// its own goroutine.
type Server struct {
	listener net.Listener
	target   Target
	log      *log.Logger
}

// NewServer wraps an already-bound listener, dispatching every connection's
// commands to target.
func NewServer(listener net.Listener, target Target, logger *log.Logger) *Server {
	return &Server{listener: listener, target: target, log: logger.With("component", "control")}
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	for {
		var req Request
		if err := ReadMessage(conn, &req); err != nil {
			return
		}
		resp := s.dispatch(req)
		if err := WriteMessage(conn, resp); err != nil {
			s.log.Error("write response failed", "err", err)
			return
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case "get_name":
		return Response{Value: s.target.Name()}
	case "get_type":
		return Response{Value: s.target.Type()}
	case "get_volume":
		v, err := s.target.Volume()
		return resultOrError(v, err)
	case "set_volume":
		f, ok := req.Value.(float64)
		if !ok {
			return Response{Error: modemerr.ErrInvalidArgument.Error() + ": set_volume requires a numeric value"}
		}
		if err := s.target.SetVolume(f); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{Value: true}
	case "get_sample_rate":
		v, err := s.target.SampleRate()
		return resultOrError(v, err)
	case "get_channels":
		v, err := s.target.Channels()
		return resultOrError(v, err)
	case "start":
		if err := s.target.Start(); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{Value: true}
	case "stop":
		if err := s.target.Stop(); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{Value: true}
	case "set_ptt":
		b, _ := req.Value.(bool)
		if err := s.target.SetPTT(b); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{Value: true}
	case "get_ptt":
		v, err := s.target.GetPTT()
		return resultOrError(v, err)
	default:
		return Response{Error: modemerr.ErrProtocol.Error() + ": unknown command " + req.Command}
	}
}

func resultOrError[T any](v T, err error) Response {
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{Value: v}
}
