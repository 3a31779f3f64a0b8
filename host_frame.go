package main

import (
	"encoding/binary"
	"fmt"
)

// SimConnect receive IDs (SIMCONNECT_RECV_ID).
const (
	recvIDException           = 1
	recvIDOpen                = 2
	recvIDQuit                = 3
	recvIDSimobjectData       = 8
	recvIDSimobjectDataByType = 9
)

const (
	// dwSize, dwVersion, dwID
	recvHeaderSize = 12
	// header + dwRequestID, dwObjectID, dwDefineID, dwFlags, dwentrynumber,
	// dwoutof, dwDefineCount; record data follows.
	recvSimobjectDataHeaderSize = recvHeaderSize + 7*4
)

// parseHostMessage classifies one raw SimConnect receive buffer. The
// telemetry payload is copied since SimConnect reuses its buffer.
func parseHostMessage(raw []byte) (HostMessage, error) {
	if len(raw) < recvHeaderSize {
		return HostMessage{}, fmt.Errorf("short receive buffer: %d bytes", len(raw))
	}

	switch binary.LittleEndian.Uint32(raw[8:]) {
	case recvIDQuit:
		return HostMessage{Kind: MessageQuit}, nil
	case recvIDSimobjectData, recvIDSimobjectDataByType:
		if len(raw) < recvSimobjectDataHeaderSize {
			return HostMessage{}, fmt.Errorf("short object data buffer: %d bytes", len(raw))
		}
		payload := make([]byte, len(raw)-recvSimobjectDataHeaderSize)
		copy(payload, raw[recvSimobjectDataHeaderSize:])
		return HostMessage{
			Kind:         MessageTelemetry,
			RequestID:    RequestID(binary.LittleEndian.Uint32(raw[12:])),
			DefinitionID: DefinitionID(binary.LittleEndian.Uint32(raw[20:])),
			Payload:      payload,
		}, nil
	default:
		return HostMessage{Kind: MessageOther}, nil
	}
}
