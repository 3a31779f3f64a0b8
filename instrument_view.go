package main

import "math"

// InstrumentView is AircraftData converted to the units the dashboard
// gauges display.
type InstrumentView struct {
	RollDegrees      float64    `json:"rollDegrees"`
	PitchDegrees     float64    `json:"pitchDegrees"`
	HeadingDegrees   float64    `json:"headingDegrees"`
	GearPercent      float64    `json:"gearPercent"`
	GearHandle       string     `json:"gearHandle"` // "up" or "down"
	GearDamaged      bool       `json:"gearDamaged"`
	GearLegs         [3]GearLeg `json:"gearLegs"` // center, left, right
	ParkingBrake     bool       `json:"parkingBrake"`
	AutopilotEngaged bool       `json:"autopilotEngaged"`
	EngineN1         [4]float64 `json:"engineN1"`
	Throttle         [4]float64 `json:"throttle"`
}

type GearLeg struct {
	Percent float64 `json:"percent"`
	Warning bool    `json:"warning"`
}

const radToDeg = 180 / math.Pi

// on reads a host Bool or Number flag.
func on(v float64) bool {
	return v > 0.5
}

func NewInstrumentView(d AircraftData) InstrumentView {
	v := InstrumentView{
		RollDegrees:      d.BankRadians * radToDeg,
		PitchDegrees:     d.PitchRadians * radToDeg,
		HeadingDegrees:   math.Mod(d.HeadingTrue+360, 360),
		GearPercent:      d.GearExtended * 100,
		GearHandle:       "up",
		GearDamaged:      on(d.GearDamageBySpeed),
		ParkingBrake:     on(d.ParkingBrake),
		AutopilotEngaged: on(d.AutopilotMaster),
		EngineN1:         d.EngineN1,
		Throttle:         d.Throttle,
	}
	if on(d.GearHandle) {
		v.GearHandle = "down"
	}
	for i := range v.GearLegs {
		v.GearLegs[i] = GearLeg{
			Percent: d.GearPosition[i] * 100,
			Warning: on(d.GearWarning[i]),
		}
	}
	return v
}
