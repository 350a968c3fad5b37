package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer wraps http.Server behind the Server interface so the listener
// security layer (plain or TLS) is chosen by the caller.
type HTTPServer struct {
	srv  *http.Server
	addr string
}

func NewHTTPServer(handler http.Handler, addr string) *HTTPServer {
	return &HTTPServer{
		srv:  &http.Server{Handler: handler},
		addr: addr,
	}
}

// Start binds a listener through the security layer and serves until Stop.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	ln, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop shuts the server down gracefully, waiting for in-flight requests up
// to the context deadline.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) Address() string {
	return s.addr
}
