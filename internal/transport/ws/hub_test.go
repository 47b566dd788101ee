package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

func newTestHub(buffer int) *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), Options{
		PingInterval: time.Minute,
		SendBuffer:   buffer,
		Types:        []domain.EntityType{domain.EntityTypeContract, domain.EntityTypeOrganization},
	})
}

// newTestServer serves the hub with every request authenticated as user 7.
func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("anon") == "" {
			r = r.WithContext(ctxutil.WithUserID(r.Context(), 7))
		}
		hub.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws"+query, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func event(t domain.EntityType, code string) domain.ChangeEvent {
	return domain.ChangeEvent{
		Type:     t,
		Kind:     domain.ChangeCreated,
		Code:     code,
		Document: domain.Document{"code": code},
		ActorID:  7,
		At:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHub_DeliversEvents(t *testing.T) {
	hub := newTestHub(8)
	srv := newTestServer(t, hub)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(context.Background(), event(domain.EntityTypeContract, "c1")))

	msg := readMessage(t, conn)
	assert.Equal(t, domain.EntityTypeContract, msg.Type)
	assert.Equal(t, domain.ChangeCreated, msg.Kind)
	assert.Equal(t, "c1", msg.Code)
	assert.Equal(t, "c1", msg.Document["code"])
}

func TestHub_TypeFilter(t *testing.T) {
	hub := newTestHub(8)
	srv := newTestServer(t, hub)
	conn := dial(t, srv, "?types=organizations")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(context.Background(), event(domain.EntityTypeContract, "c1")))
	require.NoError(t, hub.Notify(context.Background(), event(domain.EntityTypeOrganization, "o1")))

	msg := readMessage(t, conn)
	assert.Equal(t, "o1", msg.Code, "contract event must be filtered out")
}

func TestHub_RejectsBeforeUpgrade(t *testing.T) {
	hub := newTestHub(8)
	srv := newTestServer(t, hub)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"anonymous", "?anon=1", http.StatusUnauthorized},
		{"unknown type", "?types=contracts,planets", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws"+tt.query, nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
	assert.Zero(t, hub.Clients())
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub := newTestHub(8)
	srv := newTestServer(t, hub)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := newTestHub(8)
	srv := newTestServer(t, hub)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
	assert.Zero(t, hub.Clients())
}

func TestHub_SlowClientClosedOnce(t *testing.T) {
	t.Parallel()

	hub := newTestHub(1)
	var closes atomic.Int32
	s := &subscriber{
		msgs:      make(chan []byte, 1),
		closeSlow: func() { closes.Add(1) },
	}
	require.True(t, hub.add(s))

	for i := 0; i < 10; i++ {
		require.NoError(t, hub.Notify(context.Background(), event(domain.EntityTypeContract, "c1")))
	}

	require.Eventually(t, func() bool { return closes.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return closes.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Len(t, s.msgs, 1)
}

func TestHub_NotifyWithoutClients(t *testing.T) {
	hub := newTestHub(1)
	assert.NoError(t, hub.Notify(context.Background(), event(domain.EntityTypeContract, "c1")))
}

func TestParseTypes(t *testing.T) {
	hub := newTestHub(1)

	got, err := hub.parseTypes(" contract , organizations ,")
	require.NoError(t, err)
	assert.Equal(t, map[domain.EntityType]bool{
		domain.EntityTypeContract:     true,
		domain.EntityTypeOrganization: true,
	}, got)

	got, err = hub.parseTypes("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = hub.parseTypes("relationships")
	assert.Error(t, err)
}
