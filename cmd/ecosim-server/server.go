package main

import (
	"net/http"

	"github.com/daniacca/ecosim/internal/eco"
	"github.com/daniacca/ecosim/internal/eco/sinks"
	"go.uber.org/zap"
)

// streamSinkID is the built-in websocket sink every server carries; /ws
// clients attach to it.
const streamSinkID = "stream"

// Server is the HTTP surface over the world manager: world lifecycle,
// manual ticking, auto-run control, snapshot queries, live streaming and
// sink administration.
type Server struct {
	manager      *eco.Manager
	dispatcher   *eco.Dispatcher
	stream       *sinks.WebSocketSink
	tickInterval int // default auto-run interval, milliseconds
	logger       *zap.SugaredLogger
}

// NewServer wires the manager, the snapshot dispatcher and the built-in
// websocket stream together.
func NewServer(logger *zap.SugaredLogger, tickIntervalMS int) *Server {
	adapter := &ecoLoggerAdapter{logger: logger}

	dispatcher := eco.NewDispatcherWithLogger(adapter)
	stream := sinks.NewWebSocketSink(streamSinkID)
	// Registration of the built-in sink can only fail on a duplicate ID,
	// which cannot happen on a fresh dispatcher.
	_ = dispatcher.Register(stream)

	manager := eco.NewManagerWithLogger(adapter)
	manager.SetDispatcher(dispatcher)

	return &Server{
		manager:      manager,
		dispatcher:   dispatcher,
		stream:       stream,
		tickInterval: tickIntervalMS,
		logger:       logger,
	}
}

// Routes returns the server's HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/worlds", s.handleListWorlds)
	mux.HandleFunc("/world/", s.handleWorldRoutes)
	mux.HandleFunc("/ws", s.handleStream)
	mux.HandleFunc("/sinks", s.handleSinksRoutes)
	mux.HandleFunc("/sinks/", s.handleSinksRoutes)
	return mux
}

// Close shuts down the dispatcher and every sink, the stream included.
func (s *Server) Close() error {
	return s.dispatcher.Close()
}
