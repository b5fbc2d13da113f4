package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/tmercier/noteshare/internal/config"
	handlerhttp "github.com/tmercier/noteshare/internal/handler/http"
	"github.com/tmercier/noteshare/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer builds the HTTP transport around the given handler. The address
// comes from cfg; an empty address is a configuration error.
func NewServer(handler *handlerhttp.Handler, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := new(server)

	if cfg.HTTPAddress != "" {
		s.httpServer = newHTTPServer(handler.Init(), cfg, logger)
	}

	if s.httpServer == nil {
		return nil, errNoTransportConfigured
	}

	s.logger = logger

	return s, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v \n", err)
	}
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
