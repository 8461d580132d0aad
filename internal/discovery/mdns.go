// ABOUTME: mDNS advertisement and lookup for the trigger endpoint
// ABOUTME: The service advertises its networked transport; trigger clients look it up
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/sirupsen/logrus"
)

// Service types for the two networked transports
const (
	ServiceUDP = "_musicbox._udp"
	ServiceTCP = "_musicbox._tcp"
)

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	// Datagram selects _musicbox._udp, otherwise _musicbox._tcp is used
	Datagram   bool
	Path       string
	InstanceID string
	Version    string
}

// ServiceType returns the mDNS service type for the configured transport
func (c Config) ServiceType() string {
	if c.Datagram {
		return ServiceUDP
	}
	return ServiceTCP
}

// TXT returns the TXT record fields advertised with the service
func (c Config) TXT() []string {
	txt := []string{"id=" + c.InstanceID}
	if c.Path != "" {
		txt = append(txt, "path="+c.Path)
	}
	if c.Version != "" {
		txt = append(txt, "version="+c.Version)
	}
	return txt
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	log    logrus.FieldLogger

	mu     sync.Mutex
	server *mdns.Server
}

// ServiceInfo describes a discovered music box
type ServiceInfo struct {
	Name string
	Host string
	Port int
	ID   string
	Path string
}

// Addr returns host:port
func (s *ServiceInfo) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config, log logrus.FieldLogger) *Manager {
	return &Manager{
		config: config,
		log:    log.WithField("component", "discovery"),
	}
}

// Advertise starts answering mDNS queries for this service
func (m *Manager) Advertise() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return fmt.Errorf("already advertising")
	}

	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	serviceType := m.config.ServiceType()
	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		serviceType,
		"",
		"",
		m.config.Port,
		ips,
		m.config.TXT(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}
	m.server = server

	m.log.WithFields(logrus.Fields{
		"type": serviceType,
		"port": m.config.Port,
	}).Infof("Advertising mDNS service: %s", m.config.ServiceName)
	return nil
}

// Stop withdraws the advertisement
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return nil
	}
	err := m.server.Shutdown()
	m.server = nil
	return err
}

// Lookup queries for music boxes of serviceType until timeout or ctx is done
func Lookup(ctx context.Context, serviceType string, timeout time.Duration) ([]*ServiceInfo, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	var found []*ServiceInfo
	done := make(chan struct{})

	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for entry := range entries {
			if entry.AddrV4 == nil || seen[entry.Name] {
				continue
			}
			seen[entry.Name] = true
			found = append(found, fromEntry(entry))
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	params := &mdns.QueryParam{
		Service:     serviceType,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	}
	err := mdns.Query(params)
	close(entries)
	<-done

	if err != nil {
		return nil, fmt.Errorf("mdns query: %w", err)
	}
	return found, ctx.Err()
}

func fromEntry(entry *mdns.ServiceEntry) *ServiceInfo {
	info := &ServiceInfo{
		Name: entry.Name,
		Host: entry.AddrV4.String(),
		Port: entry.Port,
	}
	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "id":
			info.ID = value
		case "path":
			info.Path = value
		}
	}
	return info
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
