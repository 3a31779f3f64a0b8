package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrConnectFailed = errors.New("connect to simulator failed")
	ErrNotConnected  = errors.New("simulator not connected")
)

// SessionState is the connection state of a Session.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// SessionConfig holds the per-session identifiers and cadence. IDs are only
// meaningful on the connection they were registered on.
type SessionConfig struct {
	ClientName       string        `yaml:"clientName"`
	DispatchInterval time.Duration `yaml:"dispatchInterval"`
	DefinitionID     DefinitionID  `yaml:"definitionID"`
	RequestID        RequestID     `yaml:"requestID"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ClientName:       "MSFS Dashboard",
		DispatchInterval: 16 * time.Millisecond,
		DefinitionID:     1,
		RequestID:        1,
	}
}

// Callbacks are invoked synchronously on the goroutine that drives the
// session. Nil fields are skipped. Handlers must return quickly.
type Callbacks struct {
	Connected        func()
	Disconnected     func()
	ConnectFailed    func(error)
	TelemetryUpdated func(AircraftData)
}

type subscription struct {
	def    DefinitionID
	layout *Layout
}

// Session owns one connection to the simulation host. It is not safe for
// concurrent use: a single goroutine (see Driver) calls Connect, Disconnect,
// Transmit and Dispatch.
type Session struct {
	cfg       SessionConfig
	transport HostTransport
	logger    *slog.Logger
	callbacks []Callbacks

	state  SessionState
	conn   HostConn
	ticker *time.Ticker
	subs   map[RequestID]subscription
}

func NewSession(transport HostTransport, cfg SessionConfig, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DispatchInterval <= 0 {
		cfg.DispatchInterval = DefaultSessionConfig().DispatchInterval
	}
	return &Session{
		cfg:       cfg,
		transport: transport,
		logger:    logger.With("host", transport.Name()),
	}
}

// Subscribe registers listener callbacks. Delivery follows registration order.
func (s *Session) Subscribe(cb Callbacks) {
	s.callbacks = append(s.callbacks, cb)
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) IsConnected() bool {
	return s.conn != nil
}

// Ticks fires once per dispatch interval while connected and is nil otherwise.
func (s *Session) Ticks() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C
}

// Connect opens the host session and registers the telemetry definition,
// the command catalog and the standing subscription. Calling it while
// connected does nothing.
func (s *Session) Connect() error {
	if s.conn != nil {
		return nil
	}
	s.state = StateConnecting

	conn, err := s.transport.Open(s.cfg.ClientName)
	if err != nil {
		return s.connectFailed(fmt.Errorf("open %s: %w", s.transport.Name(), err))
	}
	subs, err := s.setup(conn)
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			s.logger.Warn("failed to close host session", "error", cerr)
		}
		return s.connectFailed(err)
	}

	s.conn = conn
	s.subs = subs
	s.ticker = time.NewTicker(s.cfg.DispatchInterval)
	s.state = StateConnected

	s.logger.Info("connected to simulator", "client", s.cfg.ClientName, "interval", s.cfg.DispatchInterval)
	for _, cb := range s.listeners() {
		if cb.Connected != nil {
			cb.Connected()
		}
	}
	return nil
}

func (s *Session) setup(conn HostConn) (map[RequestID]subscription, error) {
	if err := declareDefinition(conn, s.cfg.DefinitionID, aircraftLayout); err != nil {
		return nil, err
	}
	if err := mapCommands(conn); err != nil {
		return nil, err
	}
	if err := subscribe(conn, s.cfg.RequestID, s.cfg.DefinitionID, PeriodSimFrame); err != nil {
		return nil, err
	}
	return map[RequestID]subscription{
		s.cfg.RequestID: {def: s.cfg.DefinitionID, layout: aircraftLayout},
	}, nil
}

func (s *Session) connectFailed(err error) error {
	s.state = StateDisconnected
	err = fmt.Errorf("%w: %w", ErrConnectFailed, err)
	s.logger.Error("failed to connect to simulator", "error", err)
	for _, cb := range s.listeners() {
		if cb.ConnectFailed != nil {
			cb.ConnectFailed(err)
		}
	}
	return err
}

// Disconnect stops dispatching and releases the host session. It is a no-op
// when already disconnected, including when called from a listener.
func (s *Session) Disconnect() {
	if s.conn == nil {
		return
	}
	conn := s.conn
	s.conn = nil
	s.subs = nil
	s.ticker.Stop()
	s.ticker = nil
	s.state = StateDisconnected

	if err := conn.Close(); err != nil {
		s.logger.Warn("failed to close host session", "error", err)
	}

	s.logger.Info("disconnected from simulator")
	for _, cb := range s.listeners() {
		if cb.Disconnected != nil {
			cb.Disconnected()
		}
	}
}

// Close releases the host session; owners defer it.
func (s *Session) Close() error {
	s.Disconnect()
	return nil
}

// listeners returns a snapshot so handlers may Subscribe while being notified.
func (s *Session) listeners() []Callbacks {
	return append([]Callbacks(nil), s.callbacks...)
}
