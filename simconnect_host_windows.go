package main

import (
	"fmt"
	"unsafe"

	sim "github.com/lian/msfs2020-go/simconnect"
)

const (
	simDatatypeFloat64          = 4
	simObjectIDUser             = 0
	simEventFlagGroupIsPriority = 0x10
)

// simConnectAPI is the part of *sim.SimConnect the transport calls. The
// assertion below pins each signature to the binding.
type simConnectAPI interface {
	AddToDataDefinition(defineID sim.DWORD, name, unit string, dataType sim.DWORD) error
	RequestDataOnSimObject(requestID, defineID, objectID, period, flags, origin, interval, limit sim.DWORD) error
	MapClientEventToSimEvent(eventID sim.DWORD, eventName string) error
	TransmitClientEvent(objectID, eventID, data, groupID, flags sim.DWORD) error
	GetNextDispatch() (unsafe.Pointer, int32, error)
	Close() error
}

var _ simConnectAPI = (*sim.SimConnect)(nil)

type simConnectTransport struct{}

func NewSimConnectTransport() HostTransport {
	return simConnectTransport{}
}

func (simConnectTransport) Name() string {
	return "SimConnect"
}

func (simConnectTransport) Open(clientName string) (HostConn, error) {
	sc, err := sim.New(clientName)
	if err != nil {
		return nil, fmt.Errorf("simconnect open: %w", err)
	}
	return &simConnectConn{sc: sc}, nil
}

type simConnectConn struct {
	sc simConnectAPI
}

func (c *simConnectConn) AddToDataDefinition(def DefinitionID, name, unit string) error {
	return c.sc.AddToDataDefinition(sim.DWORD(def), name, unit, sim.DWORD(simDatatypeFloat64))
}

func (c *simConnectConn) RequestData(req RequestID, def DefinitionID, period Period) error {
	return c.sc.RequestDataOnSimObject(sim.DWORD(req), sim.DWORD(def), sim.DWORD(simObjectIDUser), sim.DWORD(period), 0, 0, 0, 0)
}

func (c *simConnectConn) MapClientEvent(cmd CommandID, nativeName string) error {
	return c.sc.MapClientEventToSimEvent(sim.DWORD(cmd), nativeName)
}

func (c *simConnectConn) TransmitClientEvent(cmd CommandID, payload uint32, priority Priority) error {
	return c.sc.TransmitClientEvent(sim.DWORD(simObjectIDUser), sim.DWORD(cmd), sim.DWORD(payload), sim.DWORD(priority), sim.DWORD(simEventFlagGroupIsPriority))
}

func (c *simConnectConn) Dispatch() ([]HostMessage, error) {
	var msgs []HostMessage
	for {
		ppData, r1, _ := c.sc.GetNextDispatch()
		if r1 < 0 {
			return msgs, nil
		}

		recv := (*sim.Recv)(ppData)
		raw := unsafe.Slice((*byte)(ppData), int(recv.Size))
		msg, err := parseHostMessage(raw)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
}

func (c *simConnectConn) Close() error {
	return c.sc.Close()
}
