// ABOUTME: Music box service: owns the stream, the trigger listener and the run loop
// ABOUTME: Acquires resources in order and releases them in reverse on every path
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
	"github.com/Resonate-Protocol/musicbox-go/internal/discovery"
	"github.com/Resonate-Protocol/musicbox-go/internal/render"
	"github.com/Resonate-Protocol/musicbox-go/internal/sequencer"
	"github.com/Resonate-Protocol/musicbox-go/internal/store"
	"github.com/Resonate-Protocol/musicbox-go/internal/trigger"
	"github.com/Resonate-Protocol/musicbox-go/internal/ui"
	"github.com/Resonate-Protocol/musicbox-go/internal/version"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio/output"
)

// ErrClosed is returned by Run after Close
var ErrClosed = errors.New("service closed")

// eventQueue bounds events waiting for the control loop
const eventQueue = 16

// Options configures a Service
type Options struct {
	Config config.Config
	Logger logrus.FieldLogger

	// Stream replaces the configured backend when set
	Stream output.Stream
	// Listener replaces the configured transport when set
	Listener trigger.Listener

	// StatusInterval is how often OnStatus is called; zero disables it
	StatusInterval time.Duration
	OnStatus       func(ui.StatusMsg)
}

// Service runs one music box
type Service struct {
	cfg        config.Config
	log        logrus.FieldLogger
	instanceID string
	started    time.Time

	store    *store.Store
	listener trigger.Listener
	mdns     *discovery.Manager
	stream   output.Stream

	flag     trigger.Flag
	seq      *sequencer.Sequencer
	deferred *render.Deferred
	driver   *render.Driver

	events    chan trigger.Event
	triggers  atomic.Int64
	unknown   atomic.Int64
	lastEvent atomic.Value

	statusInterval time.Duration
	onStatus       func(ui.StatusMsg)

	mu      sync.Mutex
	closed  bool
	cancel  context.CancelFunc
	running chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Open acquires the store, the trigger listener, the mDNS advertisement and
// the backend stream, in that order. On failure everything already acquired
// is released in reverse order.
func Open(opts Options) (_ *Service, err error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Service{
		cfg:            opts.Config,
		log:            log.WithField("component", "service"),
		instanceID:     uuid.New().String(),
		started:        time.Now(),
		deferred:       render.NewDeferred(),
		events:         make(chan trigger.Event, eventQueue),
		statusInterval: opts.StatusInterval,
		onStatus:       opts.OnStatus,
	}
	s.lastEvent.Store("")

	var cleanup []func()
	defer func() {
		if err != nil {
			for i := len(cleanup) - 1; i >= 0; i-- {
				cleanup[i]()
			}
		}
	}()

	// Sample buffer and step table
	st, err := store.Load(s.cfg.Sample, s.cfg.Audio.Rate)
	if err != nil {
		return nil, resourceError("load sample", err)
	}
	s.store = st
	cleanup = append(cleanup, s.releaseStore)

	s.seq = sequencer.New(st, &s.flag)
	s.driver = render.NewDriver(s.seq, s.deferred)

	s.log.WithFields(logrus.Fields{
		"mode":   s.cfg.Sample.Mode(),
		"frames": st.Frames(),
		"steps":  len(st.Steps),
	}).Info("Sample loaded")

	// Trigger listener
	if opts.Listener != nil {
		s.listener = opts.Listener
	} else {
		l, err := trigger.New(s.cfg.Transport, s.cfg.Token)
		if err != nil {
			return nil, resourceError("bind control endpoint", err)
		}
		s.listener = l
	}
	cleanup = append(cleanup, s.closeListener)
	s.log.Infof("Server is listening on %s", s.listener.Addr())

	// mDNS
	if s.cfg.MDNS && s.cfg.Transport.Networked() {
		if err := s.advertise(); err != nil {
			return nil, resourceError("advertise", err)
		}
		cleanup = append(cleanup, s.stopMDNS)
	}

	// Backend stream
	if opts.Stream != nil {
		s.stream = opts.Stream
	} else {
		stream, err := output.New(string(s.cfg.Backend), s.cfg.Audio.Rate, s.cfg.Audio.PeriodFrames)
		if err != nil {
			return nil, backendError("create stream", err)
		}
		s.stream = stream
	}
	cleanup = append(cleanup, s.closeStream)
	if n, ok := s.stream.(output.SkipNotifier); ok {
		n.OnSkip(s.driver.Skip)
	}
	if err := s.stream.Connect(s.driver.Render); err != nil {
		return nil, backendError("connect stream", err)
	}
	s.log.WithFields(logrus.Fields{
		"backend": s.cfg.Backend,
		"rate":    s.cfg.Audio.Rate,
	}).Info("Audio stream connected")

	return s, nil
}

func (s *Service) advertise() error {
	name := s.cfg.ServiceName
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("hostname: %w", err)
		}
		name = host
	}

	cfg := discovery.Config{
		ServiceName: name,
		Port:        trigger.Port(s.listener),
		Datagram:    s.cfg.Transport.Kind() == config.TransportUDP,
		InstanceID:  s.instanceID,
		Version:     version.Version,
	}
	if ws, ok := s.cfg.Transport.(config.WebSocketTransport); ok {
		cfg.Path = ws.Path
	}

	m := discovery.NewManager(cfg, s.log)
	if err := m.Advertise(); err != nil {
		return err
	}
	s.mdns = m
	return nil
}

// Run serves triggers until ctx is done, the listener fails or Close is called
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.running != nil {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.running = done
	s.mu.Unlock()

	defer close(done)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.listener.Listen(gctx, s.events); err != nil {
			return runtimeError("receive", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.loop(gctx)
	})

	return g.Wait()
}

// loop is the only goroutine that controls the stream while running
func (s *Service) loop(ctx context.Context) error {
	var tick <-chan time.Time
	if s.statusInterval > 0 && s.onStatus != nil {
		ticker := time.NewTicker(s.statusInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-s.events:
			if err := s.handleEvent(ev); err != nil {
				return err
			}

		case <-s.deferred.Requests():
			if err := s.deactivate(); err != nil {
				return err
			}

		case reason := <-s.driver.SkipReasons():
			s.log.WithField("skips", s.driver.Skips()).Debugf("Render tick skipped: %s", reason)

		case <-tick:
			s.onStatus(s.Status())
		}
	}
}

// handleEvent activates the stream and offers a trigger for the token;
// anything else is reported and dropped
func (s *Service) handleEvent(ev trigger.Event) error {
	log := s.log.WithFields(logrus.Fields{
		"event":  ev.ID.String(),
		"source": ev.Source,
	})

	if !trigger.Match(ev.Payload, s.cfg.Token) {
		s.unknown.Add(1)
		s.lastEvent.Store("unknown " + trigger.Preview(ev.Payload))
		log.Warnf("Unrecognized message: %s", trigger.Preview(ev.Payload))
		return nil
	}

	s.triggers.Add(1)
	s.lastEvent.Store("trigger from " + ev.Source)

	if !s.stream.Active() {
		if err := s.stream.SetActive(true); err != nil {
			return backendError("activate stream", err)
		}
		log.Debug("Stream activated")
	}
	s.flag.Offer()
	log.Debug("Trigger offered")
	return nil
}

// deactivate pauses the stream after the sequence went idle. A trigger that
// arrived after the request keeps the stream running.
func (s *Service) deactivate() error {
	if s.flag.Pending() || s.seq.Active() {
		s.log.Debug("Deactivation skipped, trigger pending")
		return nil
	}
	if !s.stream.Active() {
		return nil
	}
	if err := s.stream.SetActive(false); err != nil {
		return backendError("deactivate stream", err)
	}
	s.log.Debug("Stream deactivated")
	return nil
}

// Trigger queues a local trigger as if it had arrived on the transport
func (s *Service) Trigger() bool {
	select {
	case s.events <- trigger.NewEvent("local", []byte(s.cfg.Token)):
		return true
	default:
		return false
	}
}

// Addr returns the control endpoint
func (s *Service) Addr() string {
	return s.listener.Addr()
}

// InstanceID identifies this process in logs and mDNS records
func (s *Service) InstanceID() string {
	return s.instanceID
}

// Status returns a snapshot for status displays. It is safe to call from
// any goroutine.
func (s *Service) Status() ui.StatusMsg {
	snap := s.seq.Snapshot()
	return ui.StatusMsg{
		Product:      version.String(),
		InstanceID:   s.instanceID,
		Backend:      string(s.cfg.Backend),
		SampleRate:   s.cfg.Audio.Rate,
		Transport:    string(s.cfg.Transport.Kind()),
		Addr:         s.listener.Addr(),
		Advertised:   s.mdns != nil,
		Started:      s.started,
		LastEvent:    s.lastEvent.Load().(string),
		Step:         snap.Step,
		Steps:        snap.Steps,
		Active:       snap.Active,
		StreamActive: s.stream.Active(),
		Triggers:     s.triggers.Load(),
		Unknown:      s.unknown.Load(),
		Advances:     snap.Advances,
		Restarts:     snap.Restarts,
		Finishes:     snap.Finishes,
		Skips:        s.driver.Skips(),
		Frames:       snap.Frames,
	}
}

// Close stops Run if it is active, then releases the listener, the stream,
// the mDNS advertisement and the store in that order. It is safe to call
// more than once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cancel, running := s.cancel, s.running
		s.mu.Unlock()

		if cancel != nil {
			cancel()
			<-running
		}

		var errs []error
		if err := s.listener.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close listener: %w", err))
		}
		if s.stream.Active() {
			if err := s.stream.SetActive(false); err != nil {
				errs = append(errs, fmt.Errorf("deactivate stream: %w", err))
			}
		}
		if err := s.stream.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stream: %w", err))
		}
		s.stopMDNS()
		s.releaseStore()

		s.closeErr = errors.Join(errs...)
		s.log.Info("Service stopped")
	})
	return s.closeErr
}

func (s *Service) closeListener() {
	if err := s.listener.Close(); err != nil {
		s.log.WithError(err).Warn("Failed to close control endpoint")
	}
}

func (s *Service) closeStream() {
	if err := s.stream.Close(); err != nil {
		s.log.WithError(err).Warn("Failed to close audio stream")
	}
}

func (s *Service) stopMDNS() {
	if s.mdns == nil {
		return
	}
	if err := s.mdns.Stop(); err != nil {
		s.log.WithError(err).Warn("Failed to stop mDNS")
	}
}

func (s *Service) releaseStore() {
	s.store.Release()
	s.log.Debug("Sample buffer and step table released")
}
