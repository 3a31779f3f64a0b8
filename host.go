package main

// DefinitionID identifies one registered telemetry record layout on a connection.
type DefinitionID uint32

// RequestID correlates a standing data subscription with the frames it produces.
type RequestID uint32

// Period is how often the host refreshes a subscription.
type Period uint32

const (
	PeriodNever Period = iota
	PeriodOnce
	PeriodVisualFrame
	PeriodSimFrame
	PeriodSecond
)

// Priority is the event group priority used for transmitted commands.
type Priority uint32

const (
	PriorityHighest  Priority = 1
	PriorityStandard Priority = 1900000000
)

// MessageKind classifies a message drained from the host queue.
type MessageKind int

const (
	MessageOther MessageKind = iota
	MessageTelemetry
	MessageQuit
)

func (k MessageKind) String() string {
	switch k {
	case MessageTelemetry:
		return "telemetry"
	case MessageQuit:
		return "quit"
	default:
		return "other"
	}
}

// HostMessage is one queued message from the simulation host. RequestID,
// DefinitionID and Payload are only meaningful for telemetry frames.
type HostMessage struct {
	Kind         MessageKind
	RequestID    RequestID
	DefinitionID DefinitionID
	Payload      []byte
}

// HostTransport opens sessions with a simulation host (SimConnect, demo).
type HostTransport interface {
	Open(clientName string) (HostConn, error)
	Name() string
}

// HostConn is a live session with the host. Implementations are not safe for
// concurrent use; the Driver goroutine is the only caller.
type HostConn interface {
	AddToDataDefinition(def DefinitionID, name, unit string) error
	RequestData(req RequestID, def DefinitionID, period Period) error
	MapClientEvent(cmd CommandID, nativeName string) error
	TransmitClientEvent(cmd CommandID, payload uint32, priority Priority) error
	// Dispatch returns every message currently queued without waiting for more.
	Dispatch() ([]HostMessage, error)
	Close() error
}
