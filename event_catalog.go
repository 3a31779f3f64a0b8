package main

import (
	"errors"
	"fmt"
	"strings"
)

// CommandID is a client event the dashboard can send to the simulator.
type CommandID uint32

const (
	CmdToggleFlightDirector CommandID = iota
	CmdAutopilotMaster
	CmdToggleNavGPS
	CmdNav1Hold
	CmdApproachHold
	CmdBackCourseHold
	CmdWingLeveler
	CmdAltitudeHold
	CmdVerticalSpeedHold
	CmdFlightLevelChange
	CmdHeadingBugSet
	CmdAirspeedVarSet
	CmdAltitudeVarSet
	CmdVerticalSpeedVarSet
	CmdAutoThrottleArm
	CmdToggleEngine1Starter
	CmdToggleEngine2Starter
	CmdToggleEngine3Starter
	CmdToggleEngine4Starter
	CmdEngineAutoShutdown
	CmdGearUp
	CmdGearDown
	CmdFlapsUp
	CmdFlapsDown
	CmdParkingBrakes
	CmdSpoilersArm
)

// ErrUnknownCommand is returned for commands that are not in the catalog.
var ErrUnknownCommand = errors.New("unknown command")

type catalogEntry struct {
	key    string // name used by the UI layer
	native string // SimConnect event name
}

// commandCatalog is indexed by CommandID. Append only.
var commandCatalog = []catalogEntry{
	CmdToggleFlightDirector: {"TOGGLE_FLIGHT_DIRECTOR", "TOGGLE_FLIGHT_DIRECTOR"},
	CmdAutopilotMaster:      {"AP_MASTER", "AP_MASTER"},
	CmdToggleNavGPS:         {"TOGGLE_NAV_GPS", "TOGGLE_GPS_DRIVES_NAV1"},
	CmdNav1Hold:             {"AP_NAV1_HOLD", "AP_NAV1_HOLD"},
	CmdApproachHold:         {"AP_APR_HOLD", "AP_APR_HOLD"},
	CmdBackCourseHold:       {"AP_BC_HOLD", "AP_BC_HOLD"},
	CmdWingLeveler:          {"AP_WING_LEVELER", "AP_WING_LEVELER"},
	CmdAltitudeHold:         {"AP_ALT_HOLD", "AP_ALT_HOLD"},
	CmdVerticalSpeedHold:    {"AP_VS_HOLD", "AP_VS_HOLD"},
	CmdFlightLevelChange:    {"AP_FLC_HOLD", "FLIGHT_LEVEL_CHANGE"},
	CmdHeadingBugSet:        {"HEADING_BUG_SET", "HEADING_BUG_SET"},
	CmdAirspeedVarSet:       {"AP_SPD_VAR_SET", "AP_SPD_VAR_SET"},
	CmdAltitudeVarSet:       {"AP_ALT_VAR_SET", "AP_ALT_VAR_SET_ENGLISH"},
	CmdVerticalSpeedVarSet:  {"AP_VS_VAR_SET", "AP_VS_VAR_SET_ENGLISH"},
	CmdAutoThrottleArm:      {"AUTO_THROTTLE_ARM", "AUTO_THROTTLE_ARM"},
	CmdToggleEngine1Starter: {"TOGGLE_ENGINE1_STARTER", "TOGGLE_STARTER1"},
	CmdToggleEngine2Starter: {"TOGGLE_ENGINE2_STARTER", "TOGGLE_STARTER2"},
	CmdToggleEngine3Starter: {"TOGGLE_ENGINE3_STARTER", "TOGGLE_STARTER3"},
	CmdToggleEngine4Starter: {"TOGGLE_ENGINE4_STARTER", "TOGGLE_STARTER4"},
	CmdEngineAutoShutdown:   {"ENGINE_AUTO_SHUTDOWN", "ENGINE_AUTO_SHUTDOWN"},
	CmdGearUp:               {"GEAR_UP", "GEAR_UP"},
	CmdGearDown:             {"GEAR_DOWN", "GEAR_DOWN"},
	CmdFlapsUp:              {"FLAPS_UP", "FLAPS_UP"},
	CmdFlapsDown:            {"FLAPS_DOWN", "FLAPS_DOWN"},
	CmdParkingBrakes:        {"PARKING_BRAKES", "PARKING_BRAKES"},
	CmdSpoilersArm:          {"SPOILERS_ARM", "SPOILERS_ARM_TOGGLE"},
}

func (c CommandID) valid() bool {
	return int(c) < len(commandCatalog)
}

func (c CommandID) String() string {
	if !c.valid() {
		return fmt.Sprintf("CommandID(%d)", uint32(c))
	}
	return commandCatalog[c].key
}

// NativeName is the host event the command is mapped to.
func (c CommandID) NativeName() string {
	if !c.valid() {
		return ""
	}
	return commandCatalog[c].native
}

// ParseCommand resolves a UI command key such as "gear_down".
func ParseCommand(key string) (CommandID, error) {
	for i, e := range commandCatalog {
		if strings.EqualFold(e.key, key) {
			return CommandID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, key)
}

// CommandKeys lists every command key in catalog order.
func CommandKeys() []string {
	keys := make([]string, len(commandCatalog))
	for i, e := range commandCatalog {
		keys[i] = e.key
	}
	return keys
}

// EngineStarter returns the starter toggle for engine n (1-4).
func EngineStarter(n int) (CommandID, error) {
	if n < 1 || n > 4 {
		return 0, fmt.Errorf("%w: engine %d", ErrUnknownCommand, n)
	}
	return CmdToggleEngine1Starter + CommandID(n-1), nil
}

// mapCommands binds every catalog entry on conn. The host gives no feedback
// on unknown native names; they are ignored when transmitted.
func mapCommands(conn HostConn) error {
	for i, e := range commandCatalog {
		if err := conn.MapClientEvent(CommandID(i), e.native); err != nil {
			return fmt.Errorf("map %s to %s: %w", e.key, e.native, err)
		}
	}
	return nil
}
