package server

import (
	"context"
	"fmt"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"social-media-api/internal/service"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Server defines fields used in HTTP processing
type Server struct {
	logger        *zap.SugaredLogger
	httpServer    *http.Server
	afterShutdown []func()
}

// NewServer returns new Server struct serving account and message endpoints
func NewServer(logger *zap.SugaredLogger, accounts *service.AccountService, messages *service.MessageService, opts ...Option) (*Server, error) {
	if accounts == nil || messages == nil {
		return nil, fmt.Errorf("server: account and message services are required")
	}

	h := &handler{
		logger:   logger,
		accounts: accounts,
		messages: messages,
	}

	cfg := &config{
		httpServer: &http.Server{
			Addr:    EnvConfig{Host: "0.0.0.0", Port: 8080}.Addr(),
			Handler: logRequest(logger.Desugar())(newRouter(h)),
		},
	}

	for _, opt := range opts {
		opt.apply(cfg)
	}

	return &Server{
		logger:        logger,
		httpServer:    cfg.httpServer,
		afterShutdown: cfg.afterShutdown,
	}, nil
}

// newRouter maps routes to handler methods, unmatched paths and methods
// are answered by the router itself with 404 and 405
func newRouter(h *handler) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/register", requireJSON(http.HandlerFunc(h.register))).Methods(http.MethodPost)
	r.Handle("/login", requireJSON(http.HandlerFunc(h.login))).Methods(http.MethodPost)

	r.Handle("/messages", requireJSON(http.HandlerFunc(h.createMessage))).Methods(http.MethodPost)
	r.HandleFunc("/messages", h.allMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{message_id}", h.messageByID).Methods(http.MethodGet)
	r.HandleFunc("/messages/{message_id}", h.deleteMessage).Methods(http.MethodDelete)
	r.Handle("/messages/{message_id}", requireJSON(http.HandlerFunc(h.editMessage))).Methods(http.MethodPatch)

	r.HandleFunc("/accounts/{account_id}/messages", h.messagesByAccount).Methods(http.MethodGet)

	return r
}

// Handler exposes the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start calls ListenAndServe on http.Server instance inside Server struct
// and implements graceful shutdown via goroutine waiting for signals
func (s *Server) Start() error {
	idleConnsClosed := make(chan struct{})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		s.logger.Info("Shutting down HTTP server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Errorf("srv.Shutdown: %v", err)
		}
		s.logger.Info("HTTP server is stopped")

		close(idleConnsClosed)
	}()

	s.logger.Infof("Starting HTTP server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		s.runAfterShutdown()
		return fmt.Errorf("s.httpServer.ListenAndServe: %w", err)
	}

	<-idleConnsClosed

	s.runAfterShutdown()

	return nil
}

func (s *Server) runAfterShutdown() {
	for _, f := range s.afterShutdown {
		f()
	}
}
