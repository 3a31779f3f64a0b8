package main

// Dispatch drains the messages the host has queued and routes them. It runs
// once per tick and never waits for new messages.
func (s *Session) Dispatch() {
	if s.conn == nil {
		return
	}

	msgs, err := s.conn.Dispatch()
	if err != nil {
		s.logger.Warn("host dispatch failed", "error", err)
	}

	for _, msg := range msgs {
		switch msg.Kind {
		case MessageTelemetry:
			s.handleTelemetry(msg)
		case MessageQuit:
			s.logger.Info("simulator is quitting")
			s.Disconnect()
		default:
			s.logger.Debug("ignored host message", "kind", msg.Kind)
		}
		// A quit notice or a listener may have ended the session mid-batch.
		if s.conn == nil {
			return
		}
	}
}

func (s *Session) handleTelemetry(msg HostMessage) {
	sub, ok := s.subs[msg.RequestID]
	if !ok || sub.def != msg.DefinitionID {
		s.logger.Debug("ignored telemetry frame", "request", msg.RequestID, "definition", msg.DefinitionID)
		return
	}

	data, err := sub.layout.Decode(msg.Payload)
	if err != nil {
		s.logger.Warn("dropped telemetry frame", "request", msg.RequestID, "error", err)
		return
	}

	for _, cb := range s.listeners() {
		if cb.TelemetryUpdated != nil {
			cb.TelemetryUpdated(data)
		}
	}
}
