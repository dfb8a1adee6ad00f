package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metcalfc/deck/internal/presentation"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server is the presenter remote.
type Server struct {
	cmd    Commander
	hub    *Hub
	logger *zap.Logger
	router *mux.Router

	mu   sync.RWMutex
	snap presentation.Snapshot

	conns sync.WaitGroup
}

// NewServer creates a remote that forwards commands to cmd and reports
// initial until the first Publish.
func NewServer(cmd Commander, initial presentation.Snapshot, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cmd:    cmd,
		hub:    NewHub(logger),
		logger: logger,
		snap:   initial,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/next", s.handleSend(NextMsg{})).Methods(http.MethodPost)
	api.HandleFunc("/prev", s.handleSend(PrevMsg{})).Methods(http.MethodPost)
	api.HandleFunc("/goto/{n:[0-9]+}", s.handleGoTo).Methods(http.MethodPost)
	api.HandleFunc("/toggle/{flag}", s.handleToggle).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	return r
}

// Handler returns the HTTP handler for the remote's routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Snapshot returns the last published state.
func (s *Server) Snapshot() presentation.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Publish records snap and pushes it to websocket clients.
func (s *Server) Publish(snap presentation.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("encode snapshot", zap.Error(err))
		return
	}
	s.hub.Broadcast(data)
}

// ListenAndServe listens on addr and serves until ctx is cancelled. If addr
// cannot be bound the server is stopped, so Publish stays a cheap no-op.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.hub.stop()
		return fmt.Errorf("remote listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down the HTTP
// server, disconnects websocket clients and waits for them to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("remote listening", zap.String("addr", ln.Addr().String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.hub.Run(ctx)
	})
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.conns.Wait()
	s.logger.Info("remote stopped")
	return err
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleSend(msg any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.send(msg)
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil || n < 1 || n > s.Snapshot().Total {
		http.Error(w, "slide out of range", http.StatusBadRequest)
		return
	}
	s.send(GoToMsg{N: n})
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	f, ok := presentation.ParseFlag(mux.Vars(r)["flag"])
	if !ok {
		http.Error(w, "unknown flag", http.StatusBadRequest)
		return
	}
	s.send(ToggleMsg{Flag: f})
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.conns.Add(1)
	defer s.conns.Done()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(s.Snapshot()); err == nil {
		c.send <- data
	}
	if !s.hub.add(c) {
		conn.Close()
		return
	}

	s.conns.Add(1)
	go func() {
		defer s.conns.Done()
		c.writeLoop()
	}()
	s.readLoop(c)
}

// readLoop forwards client commands until the connection fails.
func (s *Server) readLoop(c *client) {
	defer s.hub.remove(c)
	for {
		var cmd command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				continue
			}
			return
		}
		msg, ok := cmd.msg()
		if !ok {
			s.logger.Debug("ignoring remote command", zap.Stringer("client", c.id), zap.String("action", cmd.Action))
			continue
		}
		s.send(msg)
	}
}

func (s *Server) send(msg any) {
	s.logger.Debug("remote command", zap.String("msg", typeName(msg)))
	s.cmd.Send(msg)
}

func typeName(msg any) string {
	switch m := msg.(type) {
	case NextMsg:
		return "next"
	case PrevMsg:
		return "prev"
	case GoToMsg:
		return "goto " + strconv.Itoa(m.N)
	case ToggleMsg:
		return "toggle " + m.Flag.String()
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
