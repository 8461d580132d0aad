// ABOUTME: Command-line trigger client for the music box service
// ABOUTME: Sends the trigger token over a unix socket, UDP or WebSocket
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
	"github.com/Resonate-Protocol/musicbox-go/internal/discovery"
	mlog "github.com/Resonate-Protocol/musicbox-go/internal/log"
)

var (
	transport = flag.String("transport", "unixgram", "Transport: unixgram, udp or websocket")
	socket    = flag.String("socket", config.DefaultSocketPath, "Unix socket path (unixgram)")
	addr      = flag.String("addr", "", "host:port of the service (udp, websocket)")
	path      = flag.String("path", config.DefaultWebSocketPath, "WebSocket endpoint path")
	token     = flag.String("token", config.DefaultToken, "Trigger token")
	count     = flag.Int("n", 1, "Number of triggers to send")
	interval  = flag.Duration("interval", 500*time.Millisecond, "Delay between triggers")
	discover  = flag.Bool("discover", false, "Find the service with mDNS instead of -addr")
	timeout   = flag.Duration("timeout", 3*time.Second, "mDNS lookup timeout")
	debug     = flag.Bool("debug", false, "Enable debug logging")
)

// sender delivers one payload per call
type sender interface {
	Send(payload []byte) error
	Close() error
}

type datagramSender struct {
	conn net.Conn
}

func (d *datagramSender) Send(payload []byte) error {
	_, err := d.conn.Write(payload)
	return err
}

func (d *datagramSender) Close() error {
	return d.conn.Close()
}

type websocketSender struct {
	conn *websocket.Conn
}

func (w *websocketSender) Send(payload []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

func (w *websocketSender) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return w.conn.Close()
}

func main() {
	flag.Parse()
	log := mlog.New(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logrus.Logger) error {
	kind := config.TransportKind(strings.ToUpper(*transport))

	target := *addr
	if *discover {
		found, err := lookup(ctx, kind)
		if err != nil {
			return err
		}
		target = found.Addr()
		if found.Path != "" {
			*path = found.Path
		}
		log.WithField("id", found.ID).Infof("Discovered %s at %s", found.Name, target)
	}

	s, err := dial(ctx, kind, target)
	if err != nil {
		return err
	}
	defer s.Close()

	for i := 0; i < *count; i++ {
		if i > 0 {
			select {
			case <-time.After(*interval):
			case <-ctx.Done():
				return nil
			}
		}
		if err := s.Send([]byte(*token)); err != nil {
			return fmt.Errorf("send trigger %d: %w", i+1, err)
		}
		log.Debugf("Sent trigger %d/%d", i+1, *count)
	}

	log.Infof("Sent %d trigger(s)", *count)
	return nil
}

func lookup(ctx context.Context, kind config.TransportKind) (*discovery.ServiceInfo, error) {
	var service string
	switch kind {
	case config.TransportUDP:
		service = discovery.ServiceUDP
	case config.TransportWebSocket:
		service = discovery.ServiceTCP
	default:
		return nil, fmt.Errorf("-discover needs a network transport, not %s", kind)
	}

	found, err := discovery.Lookup(ctx, service, *timeout)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no %s service found after %s", service, *timeout)
	}
	return found[0], nil
}

func dial(ctx context.Context, kind config.TransportKind, target string) (sender, error) {
	switch kind {
	case config.TransportUnixgram:
		conn, err := net.Dial("unixgram", *socket)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", *socket, err)
		}
		return &datagramSender{conn: conn}, nil

	case config.TransportUDP:
		if target == "" {
			return nil, fmt.Errorf("-addr is required for udp")
		}
		conn, err := net.Dial("udp", target)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", target, err)
		}
		return &datagramSender{conn: conn}, nil

	case config.TransportWebSocket:
		if target == "" {
			return nil, fmt.Errorf("-addr is required for websocket")
		}
		u := url.URL{Scheme: "ws", Host: target, Path: *path}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", u.String(), err)
		}
		return &websocketSender{conn: conn}, nil

	default:
		return nil, fmt.Errorf("unsupported transport %q", *transport)
	}
}
