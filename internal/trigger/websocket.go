// ABOUTME: WebSocket trigger transport
// ABOUTME: Each received text or binary message is one control payload
package trigger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketListener accepts trigger clients on an HTTP endpoint
type WebSocketListener struct {
	ln       net.Listener
	path     string
	upgrader websocket.Upgrader
	server   *http.Server

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	once     sync.Once
	closeErr error
}

// ListenWebSocket binds address and serves upgrades on path
func ListenWebSocket(address, path string) (*WebSocketListener, error) {
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", address, err)
	}

	return &WebSocketListener{
		ln:   ln,
		path: path,
		upgrader: websocket.Upgrader{
			ReadBufferSize: maxPayload,
			// Trigger clients are local tools, not browsers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}, nil
}

// Listen serves connections until ctx is done or the server fails
func (l *WebSocketListener) Listen(ctx context.Context, events chan<- Event) error {
	mux := http.NewServeMux()
	mux.HandleFunc(l.path, func(w http.ResponseWriter, r *http.Request) {
		l.handle(ctx, w, r, events)
	})

	l.mu.Lock()
	l.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	server := l.server
	l.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	err := server.Serve(l.ln)
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("serve: %w", err)
}

func (l *WebSocketListener) handle(ctx context.Context, w http.ResponseWriter, r *http.Request, events chan<- Event) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(maxPayload)

	if !l.track(conn) {
		conn.Close()
		return
	}
	defer l.untrack(conn)

	source := "websocket:" + r.RemoteAddr
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if !deliver(ctx, events, NewEvent(source, payload)) {
			return
		}
	}
}

// track registers a connection, refusing it once the listener is closing
func (l *WebSocketListener) track(conn *websocket.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conns == nil {
		return false
	}
	l.conns[conn] = struct{}{}
	return true
}

func (l *WebSocketListener) untrack(conn *websocket.Conn) {
	l.mu.Lock()
	if l.conns != nil {
		delete(l.conns, conn)
	}
	l.mu.Unlock()
	conn.Close()
}

// Addr returns the bound address with the endpoint path
func (l *WebSocketListener) Addr() string {
	return "ws://" + l.ln.Addr().String() + l.path
}

// Port returns the bound TCP port
func (l *WebSocketListener) Port() int {
	if addr, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Path returns the endpoint path
func (l *WebSocketListener) Path() string {
	return l.path
}

// Close stops the server and drops every open client
func (l *WebSocketListener) Close() error {
	l.once.Do(func() {
		l.mu.Lock()
		server := l.server
		conns := l.conns
		l.conns = nil
		l.mu.Unlock()

		deadline := time.Now().Add(time.Second)
		for conn := range conns {
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			conn.Close()
		}

		if server != nil {
			l.closeErr = server.Close()
		} else {
			l.closeErr = l.ln.Close()
		}
	})
	return l.closeErr
}
