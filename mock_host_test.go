package main

import (
	"errors"
	"sync"
)

// mockHost implements HostTransport for tests. Every Open yields a fresh
// mockConn that records the calls made on it.
type mockHost struct {
	mu        sync.Mutex
	openErr   error
	mapErr    error
	opens     int
	conns     []*mockConn
	clientIDs []string
}

func (h *mockHost) Name() string { return "Mock" }

func (h *mockHost) Open(clientName string) (HostConn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opens++
	h.clientIDs = append(h.clientIDs, clientName)
	if h.openErr != nil {
		return nil, h.openErr
	}
	c := &mockConn{mapErr: h.mapErr, mapped: make(map[CommandID]string)}
	h.conns = append(h.conns, c)
	return c, nil
}

func (h *mockHost) Opens() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opens
}

// Conn returns the most recently opened connection.
func (h *mockHost) Conn() *mockConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.conns) == 0 {
		return nil
	}
	return h.conns[len(h.conns)-1]
}

type mockRequest struct {
	req    RequestID
	def    DefinitionID
	period Period
}

type mockTransmit struct {
	cmd      CommandID
	payload  uint32
	priority Priority
}

type mockConn struct {
	mu          sync.Mutex
	mapErr      error
	dispatchErr error
	closed      bool
	closeCalls  int
	calls       []string
	vars        map[DefinitionID][]Variable
	requests    []mockRequest
	mapped      map[CommandID]string
	sent        []mockTransmit
	queue       []HostMessage
}

var errMockClosed = errors.New("mock connection closed")

func (c *mockConn) AddToDataDefinition(def DefinitionID, name, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errMockClosed
	}
	c.calls = append(c.calls, "define")
	if c.vars == nil {
		c.vars = make(map[DefinitionID][]Variable)
	}
	c.vars[def] = append(c.vars[def], Variable{Name: name, Unit: unit})
	return nil
}

func (c *mockConn) RequestData(req RequestID, def DefinitionID, period Period) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errMockClosed
	}
	c.calls = append(c.calls, "request")
	c.requests = append(c.requests, mockRequest{req: req, def: def, period: period})
	return nil
}

func (c *mockConn) MapClientEvent(cmd CommandID, nativeName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errMockClosed
	}
	if c.mapErr != nil {
		return c.mapErr
	}
	c.calls = append(c.calls, "map")
	c.mapped[cmd] = nativeName
	return nil
}

func (c *mockConn) TransmitClientEvent(cmd CommandID, payload uint32, priority Priority) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errMockClosed
	}
	c.calls = append(c.calls, "transmit")
	c.sent = append(c.sent, mockTransmit{cmd: cmd, payload: payload, priority: priority})
	return nil
}

func (c *mockConn) Dispatch() ([]HostMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errMockClosed
	}
	msgs := c.queue
	c.queue = nil
	return msgs, c.dispatchErr
}

func (c *mockConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.closeCalls++
	return nil
}

// Queue adds messages for the next Dispatch.
func (c *mockConn) Queue(msgs ...HostMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, msgs...)
}

func (c *mockConn) Sent() []mockTransmit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mockTransmit(nil), c.sent...)
}

func (c *mockConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// telemetryFrame encodes d as the host would deliver it for req/def.
func telemetryFrame(req RequestID, def DefinitionID, d AircraftData) HostMessage {
	return HostMessage{
		Kind:         MessageTelemetry,
		RequestID:    req,
		DefinitionID: def,
		Payload:      aircraftLayout.Encode(d),
	}
}

// sampleAircraftData returns a parked airliner with two engines at idle.
func sampleAircraftData() AircraftData {
	return AircraftData{
		GearExtended:    1,
		ParkingBrake:    1,
		AutopilotMaster: 0,
		BankRadians:     0.1,
		PitchRadians:    -0.05,
		GearHandle:      1,
		HeadingTrue:     270,
		GearPosition:    [3]float64{1, 1, 1},
		EngineN1:        [4]float64{22.5, 22.4, 0, 0},
		Throttle:        [4]float64{0, 0, 0, 0},
	}
}

// callbackLog collects session callbacks.
type callbackLog struct {
	mu           sync.Mutex
	connected    int
	disconnected int
	failures     []error
	frames       []AircraftData
}

func (l *callbackLog) Callbacks() Callbacks {
	return Callbacks{
		Connected: func() {
			l.mu.Lock()
			l.connected++
			l.mu.Unlock()
		},
		Disconnected: func() {
			l.mu.Lock()
			l.disconnected++
			l.mu.Unlock()
		},
		ConnectFailed: func(err error) {
			l.mu.Lock()
			l.failures = append(l.failures, err)
			l.mu.Unlock()
		},
		TelemetryUpdated: func(d AircraftData) {
			l.mu.Lock()
			l.frames = append(l.frames, d)
			l.mu.Unlock()
		},
	}
}

func (l *callbackLog) Frames() []AircraftData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]AircraftData(nil), l.frames...)
}

func (l *callbackLog) Counts() (connected, disconnected, failures int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected, l.disconnected, len(l.failures)
}
