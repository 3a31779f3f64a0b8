package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AircraftData holds one telemetry record from the simulator, in host units.
// Field values arrive in the order declared by aircraftLayout.
type AircraftData struct {
	GearExtended      float64    `json:"gearExtended"` // 0..1
	ParkingBrake      float64    `json:"parkingBrake"`
	AutopilotMaster   float64    `json:"autopilotMaster"`
	BankRadians       float64    `json:"bankRadians"`
	PitchRadians      float64    `json:"pitchRadians"`
	GearHandle        float64    `json:"gearHandle"`
	HeadingTrue       float64    `json:"headingTrue"` // degrees
	GearDamageBySpeed float64    `json:"gearDamageBySpeed"`
	GearWarning       [3]float64 `json:"gearWarning"`  // center, left, right
	GearPosition      [3]float64 `json:"gearPosition"` // center, left, right, 0..1
	EngineN1          [4]float64 `json:"engineN1"`     // percent
	Throttle          [4]float64 `json:"throttle"`     // percent
}

// Variable is a named simulator variable and the unit it is requested in.
type Variable struct {
	Name string
	Unit string
}

type layoutField struct {
	Variable
	ref func(*AircraftData) *float64
}

// Layout is an ordered set of float64 simulator variables. The same table
// drives both the host declaration and the payload decode, so the two cannot
// drift apart.
type Layout struct {
	Version int
	fields  []layoutField
}

const fieldSize = 8 // SIMCONNECT_DATATYPE_FLOAT64

func field(name, unit string, ref func(*AircraftData) *float64) layoutField {
	return layoutField{Variable: Variable{Name: name, Unit: unit}, ref: ref}
}

// aircraftLayout is the system-of-record telemetry layout. Bump Version
// whenever a field is added, removed or reordered.
var aircraftLayout = &Layout{
	Version: 2,
	fields: []layoutField{
		field("GEAR TOTAL PCT EXTENDED", "Percent Over 100", func(d *AircraftData) *float64 { return &d.GearExtended }),
		field("BRAKE PARKING INDICATOR", "Bool", func(d *AircraftData) *float64 { return &d.ParkingBrake }),
		field("AUTOPILOT MASTER", "Bool", func(d *AircraftData) *float64 { return &d.AutopilotMaster }),
		field("ATTITUDE INDICATOR BANK DEGREES", "Radians", func(d *AircraftData) *float64 { return &d.BankRadians }),
		field("ATTITUDE INDICATOR PITCH DEGREES", "Radians", func(d *AircraftData) *float64 { return &d.PitchRadians }),
		field("GEAR HANDLE POSITION", "Bool", func(d *AircraftData) *float64 { return &d.GearHandle }),
		field("PLANE HEADING DEGREES TRUE", "Degrees", func(d *AircraftData) *float64 { return &d.HeadingTrue }),
		field("GEAR DAMAGE BY SPEED", "Bool", func(d *AircraftData) *float64 { return &d.GearDamageBySpeed }),
		field("GEAR WARNING:0", "Number", func(d *AircraftData) *float64 { return &d.GearWarning[0] }),
		field("GEAR WARNING:1", "Number", func(d *AircraftData) *float64 { return &d.GearWarning[1] }),
		field("GEAR WARNING:2", "Number", func(d *AircraftData) *float64 { return &d.GearWarning[2] }),
		field("GEAR CENTER POSITION", "Percent Over 100", func(d *AircraftData) *float64 { return &d.GearPosition[0] }),
		field("GEAR LEFT POSITION", "Percent Over 100", func(d *AircraftData) *float64 { return &d.GearPosition[1] }),
		field("GEAR RIGHT POSITION", "Percent Over 100", func(d *AircraftData) *float64 { return &d.GearPosition[2] }),
		field("TURB ENG N1:1", "Percent", func(d *AircraftData) *float64 { return &d.EngineN1[0] }),
		field("TURB ENG N1:2", "Percent", func(d *AircraftData) *float64 { return &d.EngineN1[1] }),
		field("TURB ENG N1:3", "Percent", func(d *AircraftData) *float64 { return &d.EngineN1[2] }),
		field("TURB ENG N1:4", "Percent", func(d *AircraftData) *float64 { return &d.EngineN1[3] }),
		field("GENERAL ENG THROTTLE LEVER POSITION:1", "Percent", func(d *AircraftData) *float64 { return &d.Throttle[0] }),
		field("GENERAL ENG THROTTLE LEVER POSITION:2", "Percent", func(d *AircraftData) *float64 { return &d.Throttle[1] }),
		field("GENERAL ENG THROTTLE LEVER POSITION:3", "Percent", func(d *AircraftData) *float64 { return &d.Throttle[2] }),
		field("GENERAL ENG THROTTLE LEVER POSITION:4", "Percent", func(d *AircraftData) *float64 { return &d.Throttle[3] }),
	},
}

// DecodeError reports a telemetry payload that does not fit its layout.
type DecodeError struct {
	Version int
	Want    int
	Got     int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode layout v%d: payload has %d bytes, need %d", e.Version, e.Got, e.Want)
}

// Variables returns the declared variables in order.
func (l *Layout) Variables() []Variable {
	vars := make([]Variable, len(l.fields))
	for i, f := range l.fields {
		vars[i] = f.Variable
	}
	return vars
}

// Size is the payload length in bytes for one record.
func (l *Layout) Size() int {
	return len(l.fields) * fieldSize
}

// Decode reads one record from a little-endian float64 payload. Bytes past
// Size are ignored.
func (l *Layout) Decode(buf []byte) (AircraftData, error) {
	var d AircraftData
	if len(buf) < l.Size() {
		return d, &DecodeError{Version: l.Version, Want: l.Size(), Got: len(buf)}
	}
	for i, f := range l.fields {
		bits := binary.LittleEndian.Uint64(buf[i*fieldSize:])
		*f.ref(&d) = math.Float64frombits(bits)
	}
	return d, nil
}

// Encode is the inverse of Decode. Hosts that synthesise frames use it.
func (l *Layout) Encode(d AircraftData) []byte {
	buf := make([]byte, l.Size())
	for i, f := range l.fields {
		binary.LittleEndian.PutUint64(buf[i*fieldSize:], math.Float64bits(*f.ref(&d)))
	}
	return buf
}

// declareDefinition registers every layout variable under id, in order.
func declareDefinition(conn HostConn, id DefinitionID, l *Layout) error {
	for _, f := range l.fields {
		if err := conn.AddToDataDefinition(id, f.Name, f.Unit); err != nil {
			return fmt.Errorf("add %q to definition %d: %w", f.Name, id, err)
		}
	}
	return nil
}

// subscribe opens a standing data request for def on the user aircraft.
func subscribe(conn HostConn, req RequestID, def DefinitionID, period Period) error {
	if err := conn.RequestData(req, def, period); err != nil {
		return fmt.Errorf("request data %d on definition %d: %w", req, def, err)
	}
	return nil
}
