package main

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAircraftLayoutVariables(t *testing.T) {
	vars := aircraftLayout.Variables()
	require.Len(t, vars, 22)
	assert.Equal(t, 22*8, aircraftLayout.Size())

	assert.Equal(t, Variable{Name: "GEAR TOTAL PCT EXTENDED", Unit: "Percent Over 100"}, vars[0])
	assert.Equal(t, Variable{Name: "BRAKE PARKING INDICATOR", Unit: "Bool"}, vars[1])
	assert.Equal(t, Variable{Name: "AUTOPILOT MASTER", Unit: "Bool"}, vars[2])
	assert.Equal(t, Variable{Name: "ATTITUDE INDICATOR BANK DEGREES", Unit: "Radians"}, vars[3])
	assert.Equal(t, Variable{Name: "ATTITUDE INDICATOR PITCH DEGREES", Unit: "Radians"}, vars[4])
	assert.Equal(t, Variable{Name: "GEAR HANDLE POSITION", Unit: "Bool"}, vars[5])
	assert.Equal(t, Variable{Name: "GENERAL ENG THROTTLE LEVER POSITION:4", Unit: "Percent"}, vars[21])
}

func TestLayoutDecodeFieldOrder(t *testing.T) {
	// Field i carries the value i+0.5 so a shifted read is obvious.
	buf := make([]byte, aircraftLayout.Size())
	for i := range 22 {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(float64(i)+0.5))
	}

	d, err := aircraftLayout.Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, 0.5, d.GearExtended)
	assert.Equal(t, 1.5, d.ParkingBrake)
	assert.Equal(t, 2.5, d.AutopilotMaster)
	assert.Equal(t, 3.5, d.BankRadians)
	assert.Equal(t, 4.5, d.PitchRadians)
	assert.Equal(t, 5.5, d.GearHandle)
	assert.Equal(t, 6.5, d.HeadingTrue)
	assert.Equal(t, 7.5, d.GearDamageBySpeed)
	assert.Equal(t, [3]float64{8.5, 9.5, 10.5}, d.GearWarning)
	assert.Equal(t, [3]float64{11.5, 12.5, 13.5}, d.GearPosition)
	assert.Equal(t, [4]float64{14.5, 15.5, 16.5, 17.5}, d.EngineN1)
	assert.Equal(t, [4]float64{18.5, 19.5, 20.5, 21.5}, d.Throttle)
}

func TestLayoutDecodeShortPayload(t *testing.T) {
	_, err := aircraftLayout.Decode(make([]byte, 40))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 2, decodeErr.Version)
	assert.Equal(t, 176, decodeErr.Want)
	assert.Equal(t, 40, decodeErr.Got)
	assert.Equal(t, "decode layout v2: payload has 40 bytes, need 176", err.Error())
}

func TestLayoutDecodeIgnoresTrailingBytes(t *testing.T) {
	want := sampleAircraftData()
	buf := append(aircraftLayout.Encode(want), 0xde, 0xad, 0xbe, 0xef)

	got, err := aircraftLayout.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeclareDefinitionWrapsHostError(t *testing.T) {
	host := &mockHost{}
	conn, err := host.Open("test")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	err = declareDefinition(conn, 3, aircraftLayout)
	assert.ErrorIs(t, err, errMockClosed)
	assert.Contains(t, err.Error(), "GEAR TOTAL PCT EXTENDED")
}
