package server

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/viewlets/pkg/binding"
	"github.com/vango-dev/viewlets/pkg/container"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/render"
)

// ConfigFunc returns a fresh container configuration. It is called once per
// page render and once per session, so it must not hand out shared viewlet
// maps.
type ConfigFunc func() container.Config

// Server serves one shared record through per-client view containers.
type Server struct {
	configFn ConfigFunc
	record   model.Model
	config   *Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// New creates a server for record. A nil config uses DefaultConfig.
func New(fn ConfigFunc, record model.Model, config *Config) *Server {
	config = config.withDefaults()
	return &Server{
		configFn: fn,
		record:   record,
		config:   config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger:   slog.Default().With("component", "server"),
		sessions: make(map[string]*Session),
	}
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger.With("component", "server")
	}
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handlePage)
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	return r
}

// newContainer builds a container for m.
func (s *Server) newContainer(m model.Model, logger *slog.Logger, dispatch binding.Dispatcher, onChange func(*binding.Binding, model.Change)) (*container.Container, error) {
	cfg := s.configFn()
	cfg.Model = m
	cfg.Logger = logger
	cfg.Metrics = s.config.Metrics
	cfg.Dispatch = dispatch
	cfg.OnChange = onChange
	return container.New(cfg)
}

// handlePage renders a fresh container and returns it as a page. The page
// renders a detached copy of the record so writes from sessions never reach
// the request goroutine.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snapshot := model.NewRecord("", s.record.Attrs())
	c, err := s.newContainer(snapshot, s.logger, nil, nil)
	if err != nil {
		s.logger.Error("build container", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer c.Destroy(r.Context())

	if _, err := c.Render(r.Context()); err != nil {
		s.logger.Error("render container", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, html.EscapeString(c.Name()), render.HTML(c.Root()))
}

// HandleWebSocket upgrades the request and starts a session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Metrics.RecordWebSocketError("upgrade")
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess, err := newSession(s, conn)
	if err != nil {
		s.logger.Error("session setup failed", "error", err)
		conn.WriteJSON(errorPush(err))
		conn.Close()
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.config.Metrics.RecordSessionCreate()

	sess.Start()
}

// removeSession forgets a closed session.
func (s *Server) removeSession(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		s.config.Metrics.RecordSessionDestroy()
	}
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<div id="app">%s</div>
<script>
(function () {
  var app = document.getElementById("app");
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "html") { app.innerHTML = msg.html; }
    else if (msg.type === "update") { ws.send(JSON.stringify({type: "refresh"})); }
    else if (msg.type === "conflict" || msg.type === "error") { console.warn(msg); }
  };
  app.addEventListener("click", function (ev) {
    var tab = ev.target.closest("[data-viewlet]");
    if (tab) { ws.send(JSON.stringify({type: "show", viewlet: tab.getAttribute("data-viewlet")})); }
  });
})();
</script>
</body>
</html>
`
