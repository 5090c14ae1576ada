package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/events"
)

// NotificationService logs domain events for audit.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventFeedbackSubmitted, n.handleFeedbackSubmitted)
	n.dispatcher.Subscribe(events.EventListeningTimeUpdated, n.handleListeningTimeUpdated)
	n.dispatcher.Subscribe(events.EventTranscriptionRequested, n.handleTranscriptionRequested)
}

func (n *NotificationService) handleFeedbackSubmitted(_ context.Context, event events.Event) error {
	n.logger.Info("FeedbackSubmitted", eventFields(event)...)
	return nil
}

func (n *NotificationService) handleListeningTimeUpdated(_ context.Context, event events.Event) error {
	n.logger.Debug("ListeningTimeUpdated", eventFields(event)...)
	return nil
}

func (n *NotificationService) handleTranscriptionRequested(_ context.Context, event events.Event) error {
	n.logger.Info("TranscriptionRequested", eventFields(event)...)
	return nil
}

func eventFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("recording_id", event.RecordingID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload),
	}
}
