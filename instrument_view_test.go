package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInstrumentView(t *testing.T) {
	d := sampleAircraftData()
	d.GearWarning = [3]float64{0, 1, 0}
	d.GearPosition = [3]float64{1, 0.5, 1}

	v := NewInstrumentView(d)

	assert.InDelta(t, 5.7296, v.RollDegrees, 0.001)
	assert.InDelta(t, -2.8648, v.PitchDegrees, 0.001)
	assert.Equal(t, 270.0, v.HeadingDegrees)
	assert.Equal(t, 100.0, v.GearPercent)
	assert.Equal(t, "down", v.GearHandle)
	assert.False(t, v.GearDamaged)
	assert.True(t, v.ParkingBrake)
	assert.False(t, v.AutopilotEngaged)
	assert.Equal(t, GearLeg{Percent: 100, Warning: false}, v.GearLegs[0])
	assert.Equal(t, GearLeg{Percent: 50, Warning: true}, v.GearLegs[1])
	assert.Equal(t, [4]float64{22.5, 22.4, 0, 0}, v.EngineN1)
}

func TestInstrumentViewGearUp(t *testing.T) {
	v := NewInstrumentView(AircraftData{GearHandle: 0, GearExtended: 0.25, AutopilotMaster: 1})

	assert.Equal(t, "up", v.GearHandle)
	assert.Equal(t, 25.0, v.GearPercent)
	assert.True(t, v.AutopilotEngaged)
}

func TestInstrumentViewNormalisesHeading(t *testing.T) {
	assert.Equal(t, 350.0, NewInstrumentView(AircraftData{HeadingTrue: -10}).HeadingDegrees)
	assert.Equal(t, 0.0, NewInstrumentView(AircraftData{HeadingTrue: 360}).HeadingDegrees)
}
