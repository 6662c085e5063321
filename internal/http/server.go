package http

import (
	"context"
	"net/http"
	"time"
)

// Server envuelve http.Server con timeouts acotados: un IdP lento no puede
// comerse la capacidad del gateway (el POST de OBO ya tiene su propio
// timeout, esto cubre el resto).
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{srv: &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}}
}

// ListenAndServe bloquea hasta que el server cae. ErrServerClosed se
// reporta como nil (shutdown ordenado no es un error).
func (s *Server) ListenAndServe() error {
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drena conexiones en curso hasta que el contexto expire.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
