package main

import "fmt"

// Transmit sends cmd to the user aircraft with the highest group priority.
// While disconnected the command is dropped with a warning and
// ErrNotConnected is returned; nothing is queued for later.
func (s *Session) Transmit(cmd CommandID, payload uint32) error {
	if !cmd.valid() {
		return fmt.Errorf("transmit: %w: %s", ErrUnknownCommand, cmd)
	}
	if s.conn == nil {
		s.logger.Warn("command dropped, simulator not connected", "command", cmd, "payload", payload)
		return ErrNotConnected
	}

	if err := s.conn.TransmitClientEvent(cmd, payload, PriorityHighest); err != nil {
		return fmt.Errorf("transmit %s: %w", cmd, err)
	}
	s.logger.Debug("command sent", "command", cmd, "payload", payload)
	return nil
}
