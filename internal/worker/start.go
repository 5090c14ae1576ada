package worker

import (
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/service"
)

// Start subscribes the audit log and, when configured, the transcription
// hand-off to dispatcher. Either may be nil.
func Start(dispatcher events.Dispatcher, notifications *service.NotificationService, transcription *TranscriptionWorker) {
	if dispatcher == nil {
		return
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if transcription != nil {
		transcription.Start(dispatcher)
	}
}
