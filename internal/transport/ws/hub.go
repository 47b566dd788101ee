// Package ws streams record change events to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

// Options configures a Hub.
type Options struct {
	// OriginPatterns are host patterns allowed in addition to the request's
	// own host.
	OriginPatterns []string
	PingInterval   time.Duration
	// SendBuffer is the number of messages queued per client before the
	// client is dropped as too slow.
	SendBuffer int
	// Types lists the entity types clients may subscribe to.
	Types []domain.EntityType
}

// Hub fans change events out to connected clients. It implements
// changes.Sink.
type Hub struct {
	opts  Options
	log   *slog.Logger
	known map[string]domain.EntityType

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	userID    int64
	types     map[domain.EntityType]bool
	msgs      chan []byte
	closeSlow func()
	dropOnce  sync.Once
}

// drop closes a client that fell behind. Only the first call has an effect.
func (s *subscriber) drop() {
	s.dropOnce.Do(func() { go s.closeSlow() })
}

func (s *subscriber) wants(t domain.EntityType) bool {
	return len(s.types) == 0 || s.types[t]
}

func NewHub(logger *slog.Logger, opts Options) *Hub {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	known := make(map[string]domain.EntityType, 2*len(opts.Types))
	for _, t := range opts.Types {
		known[string(t)] = t
		known[t.Collection()] = t
	}
	return &Hub{
		opts:  opts,
		log:   logger.With("component", "ws"),
		known: known,
		subs:  make(map[*subscriber]struct{}),
	}
}

// message is the frame sent for every change.
type message struct {
	Type     domain.EntityType `json:"type"`
	Kind     domain.ChangeKind `json:"kind"`
	Code     string            `json:"code"`
	Document domain.Document   `json:"document,omitempty"`
	At       time.Time         `json:"at"`
}

// Notify queues ev for every interested client. A client whose queue is
// full is disconnected rather than blocking the publisher.
func (h *Hub) Notify(_ context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(message{
		Type:     ev.Type,
		Kind:     ev.Kind,
		Code:     ev.Code,
		Document: ev.Document,
		At:       ev.At.UTC(),
	})
	if err != nil {
		return fmt.Errorf("ws.Notify: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if !s.wants(ev.Type) {
			continue
		}
		select {
		case s.msgs <- payload:
		default:
			s.drop()
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.subs {
		close(s.msgs)
		delete(h.subs, s)
	}
}

// ServeHTTP upgrades an authenticated request and streams events until the
// client goes away. The optional types query parameter is a comma separated
// list of entity types or collection names.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	types, err := h.parseTypes(r.URL.Query().Get("types"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.opts.OriginPatterns})
	if err != nil {
		// Accept has already written the response.
		h.log.DebugContext(r.Context(), "websocket accept failed", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow()

	s := &subscriber{
		userID: userID,
		types:  types,
		msgs:   make(chan []byte, h.opts.SendBuffer),
		closeSlow: func() {
			conn.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
		},
	}
	if !h.add(s) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.remove(s)

	h.log.InfoContext(r.Context(), "ws client connected", slog.Int64("user_id", userID), slog.Int("clients", h.Clients()))

	err = h.stream(conn.CloseRead(r.Context()), conn, s)
	switch {
	case errors.Is(err, errHubClosed):
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	case err != nil && !isClosure(err):
		h.log.WarnContext(r.Context(), "ws client dropped", slog.Int64("user_id", userID), slog.String("error", err.Error()))
	}
	h.log.InfoContext(r.Context(), "ws client disconnected", slog.Int64("user_id", userID))
}

var errHubClosed = errors.New("hub closed")

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, s *subscriber) error {
	ping := time.NewTicker(h.opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-s.msgs:
			if !ok {
				return errHubClosed
			}
			if err := write(ctx, conn, msg); err != nil {
				return err
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, h.opts.PingInterval)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}

func (h *Hub) add(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[s] = struct{}{}
	return true
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}

func (h *Hub) parseTypes(raw string) (map[domain.EntityType]bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	out := make(map[domain.EntityType]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := h.known[name]
		if !ok {
			return nil, fmt.Errorf("unknown type %q", name)
		}
		out[t] = true
	}
	return out, nil
}

func isClosure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
