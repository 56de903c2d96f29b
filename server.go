package motionlink

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/zhiqiangxu/util"
	"go.uber.org/zap"
)

// Server accepts register-protocol sessions and feeds each 8-byte frame to
// a Handler. Sessions are short-lived by protocol design: clients open a
// fresh connection per exchange.
type Server struct {
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	ln         net.Listener
}

// NewServer wraps an existing listener. Use ListenTCP unless the caller
// needs to own listener construction (tests do, for counting sessions).
func NewServer(ln net.Listener) *Server {
	ctx, cancelFunc := context.WithCancel(context.Background())
	return &Server{ln: ln, ctx: ctx, cancelFunc: cancelFunc}
}

func ListenTCP(address string) (s *Server, err error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return
	}

	s = NewServer(ln)
	return
}

// Addr returns the listener address, useful with a ":0" listen address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until Shutdown, serving each on its own
// tracked goroutine. Temporary accept errors back off and retry.
func (s *Server) Serve(h Handler) {
	util.GoFunc(&s.wg, func() {
		var tempDelay time.Duration // how long to sleep on accept failure
		for {
			rw, err := s.ln.Accept()
			if err == nil {
				tempDelay = 0

				util.GoFunc(&s.wg, func() {
					s.serveConn(rw, h)
				})
				continue
			}

			select {
			case <-s.ctx.Done():
				return
			default:
			}

			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				l.Error("motionlink: Accept", zap.Duration("retrying in", tempDelay), zap.Error(err))
				time.Sleep(tempDelay)
				continue
			}
			l.Error("motionlink: Accept fatal", zap.Error(err))
			time.Sleep(time.Second) // keep trying instead of quit
		}
	})
}

// serveConn reads fixed-size frames until the peer closes, the handler
// ends the session, or the server shuts down.
func (s *Server) serveConn(conn net.Conn, h Handler) {
	defer conn.Close()

	for {
		var buf [FrameSize]byte
		if _, err := io.ReadFull(conn, buf[:]); err != nil {
			if !errors.Is(err, io.EOF) {
				l.Debug("motionlink: session read", zap.Error(err))
			}
			return
		}

		f, err := unmarshalFrame(buf[:])
		if err != nil {
			l.Warn("motionlink: bad frame", zap.Error(err))
			return
		}

		rsp, last := h.ServeFrame(f)
		if rsp != nil {
			out := rsp.marshal()
			if _, err := conn.Write(out[:]); err != nil {
				l.Debug("motionlink: session write", zap.Error(err))
				return
			}
		}
		if last {
			return
		}

		select {
		case <-s.ctx.Done():
			return
		default:
		}
	}
}

// Shutdown closes the listener and stops accepting; in-flight sessions end
// with their current frame.
func (s *Server) Shutdown() (err error) {
	s.cancelFunc()
	return s.ln.Close()
}
