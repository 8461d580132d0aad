// ABOUTME: Datagram transports for trigger messages
// ABOUTME: AF_UNIX datagram socket (default) and UDP, one message per packet
package trigger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
)

// DatagramListener reads one control message per datagram
type DatagramListener struct {
	conn     net.PacketConn
	network  string
	unixPath string
	once     sync.Once
	closeErr error
}

// ListenUnixgram binds an AF_UNIX datagram socket at path, removing a stale
// socket file first
func ListenUnixgram(path string) (*DatagramListener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale socket %s: %w", path, err)
	}

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", path, err)
	}
	// a unixgram UnixConn never unlinks its path; Close removes it
	return &DatagramListener{conn: conn, network: "unixgram", unixPath: path}, nil
}

// ListenUDP binds a UDP socket on address
func ListenUDP(address string) (*DatagramListener, error) {
	conn, err := net.ListenPacket("udp", address)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", address, err)
	}
	return &DatagramListener{conn: conn, network: "udp"}, nil
}

// Listen reads datagrams until ctx is done or a receive fails
func (l *DatagramListener) Listen(ctx context.Context, events chan<- Event) error {
	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	buf := make([]byte, maxPayload)
	for {
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				// wait for the socket file to be removed before reporting the endpoint released
				l.Close()
				return nil
			}
			return fmt.Errorf("recv: %w", err)
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		source := l.network
		if from != nil {
			if addr := from.String(); addr != "" && addr != "<nil>" {
				source = l.network + ":" + addr
			}
		}
		if !deliver(ctx, events, NewEvent(source, payload)) {
			l.Close()
			return nil
		}
	}
}

// Addr returns the bound address
func (l *DatagramListener) Addr() string {
	return l.conn.LocalAddr().String()
}

// Port returns the bound UDP port, or 0 for unix sockets
func (l *DatagramListener) Port() int {
	if addr, ok := l.conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

// Close closes the socket and removes a unix socket file
func (l *DatagramListener) Close() error {
	l.once.Do(func() {
		l.closeErr = l.conn.Close()
		if l.unixPath != "" {
			if err := os.Remove(l.unixPath); err != nil && !errors.Is(err, os.ErrNotExist) && l.closeErr == nil {
				l.closeErr = err
			}
		}
	})
	return l.closeErr
}
