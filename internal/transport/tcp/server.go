package tcp

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dkovalsky/relaychat/internal/transport"
)

// Server accepts TCP connections and hands each one to the protocol handler.
type Server struct {
	addr      string
	handler   *transport.Handler
	log       *zerolog.Logger
	listener  net.Listener
	closeOnce sync.Once
}

// NewServer builds a TCP front-end listening on addr.
func NewServer(addr string, handler *transport.Handler, logger *zerolog.Logger) *Server {
	return &Server{addr: addr, handler: handler, log: logger}
}

// Run listens and accepts until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Listen binds the listening socket. After it returns, Addr reports the
// actual bound address.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.log.Info().Str("addr", listener.Addr().String()).Msg("tcp server listening")
	return nil
}

// Serve accepts connections until ctx is canceled. Each connection gets its
// own goroutine; a failing connection never takes down the accept loop.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handler.Serve(ctx, conn)
	}
}

// Close stops the listener; safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		if s.listener != nil {
			_ = s.listener.Close()
		}
	})
}

// Addr reports the bound listen address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}
