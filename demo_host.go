package main

import (
	"errors"
	"math"
	"slices"
	"time"
)

// demoTransport is a stand-in host that flies a gentle racetrack with
// working gear, parking brake, autopilot and engine starters.
type demoTransport struct {
	now func() time.Time
}

func NewDemoTransport() HostTransport {
	return &demoTransport{now: time.Now}
}

func (t *demoTransport) Name() string {
	return "Demo"
}

func (t *demoTransport) Open(string) (HostConn, error) {
	return &demoConn{
		now:      t.now,
		last:     t.now(),
		defs:     make(map[DefinitionID][]Variable),
		requests: make(map[RequestID]DefinitionID),
		events:   make(map[CommandID]string),
		aircraft: demoAircraft{
			gearHandle:   1,
			gearExtended: 1,
			parkingBrake: 1,
			heading:      270,
			throttle:     [4]float64{65, 65, 65, 65},
		},
	}, nil
}

type demoConn struct {
	now    func() time.Time
	last   time.Time
	closed bool

	defs     map[DefinitionID][]Variable
	requests map[RequestID]DefinitionID
	events   map[CommandID]string
	aircraft demoAircraft
}

var errDemoClosed = errors.New("demo session closed")

func (c *demoConn) AddToDataDefinition(def DefinitionID, name, unit string) error {
	if c.closed {
		return errDemoClosed
	}
	c.defs[def] = append(c.defs[def], Variable{Name: name, Unit: unit})
	return nil
}

func (c *demoConn) RequestData(req RequestID, def DefinitionID, period Period) error {
	if c.closed {
		return errDemoClosed
	}
	if period == PeriodNever {
		delete(c.requests, req)
		return nil
	}
	c.requests[req] = def
	return nil
}

func (c *demoConn) MapClientEvent(cmd CommandID, nativeName string) error {
	if c.closed {
		return errDemoClosed
	}
	c.events[cmd] = nativeName
	return nil
}

func (c *demoConn) TransmitClientEvent(cmd CommandID, payload uint32, _ Priority) error {
	if c.closed {
		return errDemoClosed
	}
	c.aircraft.apply(c.events[cmd], payload)
	return nil
}

func (c *demoConn) Dispatch() ([]HostMessage, error) {
	if c.closed {
		return nil, errDemoClosed
	}
	now := c.now()
	c.aircraft.step(now.Sub(c.last).Seconds())
	c.last = now

	msgs := make([]HostMessage, 0, len(c.requests))
	for req, def := range c.requests {
		vars, ok := c.defs[def]
		if !ok {
			continue
		}
		msgs = append(msgs, HostMessage{
			Kind:         MessageTelemetry,
			RequestID:    req,
			DefinitionID: def,
			Payload:      c.payload(vars),
		})
	}
	return msgs, nil
}

func (c *demoConn) payload(vars []Variable) []byte {
	if slices.Equal(vars, aircraftLayout.Variables()) {
		return aircraftLayout.Encode(c.aircraft.data())
	}
	return make([]byte, len(vars)*fieldSize)
}

func (c *demoConn) Close() error {
	c.closed = true
	return nil
}

type demoAircraft struct {
	elapsed      float64
	gearHandle   float64
	gearExtended float64
	parkingBrake float64
	autopilot    float64
	heading      float64
	bank         float64
	pitch        float64
	running      [4]bool
	n1           [4]float64
	throttle     [4]float64
}

const (
	demoGearRate = 0.25 // fraction of travel per second
	demoIdleN1   = 20.0
	demoSpool    = 0.5 // per second
)

func (a *demoAircraft) apply(event string, payload uint32) {
	switch event {
	case "GEAR_UP":
		a.gearHandle = 0
	case "GEAR_DOWN":
		a.gearHandle = 1
	case "PARKING_BRAKES":
		a.parkingBrake = 1 - a.parkingBrake
	case "AP_MASTER":
		a.autopilot = 1 - a.autopilot
	case "TOGGLE_STARTER1", "TOGGLE_STARTER2", "TOGGLE_STARTER3", "TOGGLE_STARTER4":
		i := int(event[len(event)-1] - '1')
		a.running[i] = !a.running[i]
	case "ENGINE_AUTO_SHUTDOWN":
		if payload >= 1 && payload <= 4 {
			a.running[payload-1] = false
			return
		}
		a.running = [4]bool{}
	}
}

func (a *demoAircraft) step(dt float64) {
	if dt <= 0 {
		return
	}
	a.elapsed += dt

	if a.autopilot > 0.5 {
		a.bank *= math.Max(0, 1-dt)
	} else {
		a.bank = 0.35 * math.Sin(a.elapsed/8)
	}
	a.pitch = 0.05 * math.Sin(a.elapsed/5)
	a.heading = math.Mod(a.heading+math.Tan(a.bank)*20*dt+360, 360)

	switch {
	case a.gearExtended < a.gearHandle:
		a.gearExtended = math.Min(a.gearHandle, a.gearExtended+demoGearRate*dt)
	case a.gearExtended > a.gearHandle:
		a.gearExtended = math.Max(a.gearHandle, a.gearExtended-demoGearRate*dt)
	}

	for i := range a.n1 {
		target := 0.0
		if a.running[i] {
			target = demoIdleN1 + (100-demoIdleN1)*a.throttle[i]/100
		}
		a.n1[i] += (target - a.n1[i]) * math.Min(1, demoSpool*dt)
	}
}

func (a *demoAircraft) data() AircraftData {
	d := AircraftData{
		GearExtended:    a.gearExtended,
		ParkingBrake:    a.parkingBrake,
		AutopilotMaster: a.autopilot,
		BankRadians:     a.bank,
		PitchRadians:    a.pitch,
		GearHandle:      a.gearHandle,
		HeadingTrue:     a.heading,
		EngineN1:        a.n1,
		Throttle:        a.throttle,
	}
	for i := range d.GearPosition {
		d.GearPosition[i] = a.gearExtended
	}
	return d
}
