package remote

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/metcalfc/deck/internal/presentation"
)

type recorder struct {
	msgs chan tea.Msg
}

func newRecorder() *recorder {
	return &recorder{msgs: make(chan tea.Msg, 16)}
}

func (r *recorder) Send(msg tea.Msg) { r.msgs <- msg }

func (r *recorder) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case m := <-r.msgs:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func snapshot(t *testing.T, total int) presentation.Snapshot {
	t.Helper()
	s, err := presentation.New(total)
	require.NoError(t, err)
	return s.Snapshot()
}

func TestRESTCommands(t *testing.T) {
	rec := newRecorder()
	srv := NewServer(rec, snapshot(t, 8), nil)

	tests := []struct {
		path string
		want tea.Msg
	}{
		{"/api/next", NextMsg{}},
		{"/api/prev", PrevMsg{}},
		{"/api/goto/8", GoToMsg{N: 8}},
		{"/api/toggle/laser", ToggleMsg{Flag: presentation.Laser}},
		{"/api/toggle/grid", ToggleMsg{Flag: presentation.Grid}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			assert.Equal(t, http.StatusAccepted, w.Code)
			assert.Equal(t, tt.want, rec.next(t))
		})
	}
}

func TestRESTRejects(t *testing.T) {
	rec := newRecorder()
	srv := NewServer(rec, snapshot(t, 8), nil)

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodPost, "/api/goto/0", http.StatusBadRequest},
		{http.MethodPost, "/api/goto/9", http.StatusBadRequest},
		{http.MethodPost, "/api/goto/abc", http.StatusNotFound},
		{http.MethodPost, "/api/toggle/confetti", http.StatusBadRequest},
		{http.MethodGet, "/api/next", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.code, w.Code, "%s %s", tt.method, tt.path)
	}
	assert.Empty(t, rec.msgs)
}

func TestStateReflectsPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := NewServer(newRecorder(), snapshot(t, 4), nil)

	get := func() presentation.Snapshot {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var got presentation.Snapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		return got
	}
	assert.Equal(t, "1/4", get().Counter)

	s, err := presentation.New(4)
	require.NoError(t, err)
	s.GoTo(3)
	s.ToggleNotes()
	srv.Publish(s.Snapshot())

	got := get()
	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 0.75, got.Progress)
	assert.True(t, got.Flags[presentation.Notes])
	assert.False(t, got.Flags[presentation.Laser])
}

// publishAll publishes n successive snapshots and fails if any call blocks.
func publishAll(t *testing.T, srv *Server, n int) {
	t.Helper()
	s, err := presentation.New(n + 1)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			s.Next()
			srv.Publish(s.Snapshot())
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
	assert.Equal(t, n+1, srv.Snapshot().Current)
}

func TestPublishAfterFailedListen(t *testing.T) {
	defer goleak.VerifyNone(t)

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	srv := NewServer(newRecorder(), snapshot(t, 2), nil)
	err = srv.ListenAndServe(context.Background(), taken.Addr().String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote listen")

	publishAll(t, srv, 3*sendBuffer)
	assert.False(t, srv.hub.Broadcast([]byte("{}")), "hub stopped")
}

func TestPublishWithoutRunningHub(t *testing.T) {
	srv := NewServer(newRecorder(), snapshot(t, 2), nil)
	publishAll(t, srv, 3*sendBuffer)

	assert.Len(t, srv.hub.broadcast, sendBuffer, "queue fills and later snapshots are dropped")
	assert.False(t, srv.hub.Broadcast([]byte("{}")))
}

func TestCommandMsg(t *testing.T) {
	tests := []struct {
		cmd  command
		want tea.Msg
		ok   bool
	}{
		{command{Action: "next"}, NextMsg{}, true},
		{command{Action: "prev"}, PrevMsg{}, true},
		{command{Action: "goto", Slide: 2}, GoToMsg{N: 2}, true},
		{command{Action: "goto"}, nil, false},
		{command{Action: "toggle", Flag: "theme"}, ToggleMsg{Flag: presentation.Theme}, true},
		{command{Action: "toggle", Flag: "sound"}, nil, false},
		{command{Action: "dance"}, nil, false},
	}
	for _, tt := range tests {
		got, ok := tt.cmd.msg()
		assert.Equal(t, tt.ok, ok, tt.cmd.Action)
		assert.Equal(t, tt.want, got, tt.cmd.Action)
	}
}

func TestWebsocket(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	srv := NewServer(rec, snapshot(t, 5), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first presentation.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "1/5", first.Counter)

	require.NoError(t, conn.WriteJSON(command{Action: "goto", Slide: 4}))
	assert.Equal(t, GoToMsg{N: 4}, rec.next(t))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(command{Action: "toggle", Flag: "laser"}))
	assert.Equal(t, ToggleMsg{Flag: presentation.Laser}, rec.next(t))

	s, err := presentation.New(5)
	require.NoError(t, err)
	s.GoTo(4)
	srv.Publish(s.Snapshot())

	var pushed presentation.Snapshot
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, 4, pushed.Current)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "server closes clients on shutdown")
	assert.False(t, srv.hub.Broadcast([]byte("{}")), "hub stopped")
}
