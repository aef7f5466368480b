package service

import (
	"context"
	"strings"

	"counseling-chat-be/internal/pkg/logger"
	"counseling-chat-be/pkg/events"
	pktNats "counseling-chat-be/pkg/nats"
)

// EventAuditService consumes the session lifecycle stream and writes an
// audit trail of everything published on it. It is the durable consumer
// counterpart of the publisher in the notification service.
type EventAuditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewEventAuditService(sub *pktNats.Subscriber, log logger.ILogger) *EventAuditService {
	return &EventAuditService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *EventAuditService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("EventAuditService", "No subscriber available, audit trail disabled", nil)
		return
	}

	err := s.subscriber.Subscribe("events.>", "chat-core-audit", s.handleEvent)
	if err != nil {
		s.logger.Error("EventAuditService", "Failed to start event audit subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventAuditService", "Event audit started, listening to events.>", nil)
}

func (s *EventAuditService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix, strip it back to the type code.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	s.logger.Info("EventAuditService", "Session event", map[string]interface{}{
		"type":    typeCode,
		"payload": event.Payload(),
	})
	return nil
}
