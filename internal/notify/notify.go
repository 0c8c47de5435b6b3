package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventTimerStarted     = "timer.started"
	EventTimerWarning     = "timer.warning"
	EventTimerExpired     = "timer.expired"
	EventTimerStopped     = "timer.stopped"
	EventSpaceReported    = "report.created"
	EventSpotSubmitted    = "submission.created"
	EventPremiumActivated = "premium.activated"
)

// Event is a user-facing notification
type Event struct {
	Type      string      `json:"type"`
	UserID    uuid.UUID   `json:"user_id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Notifier delivers events
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the application log
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the event
func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	n.logger.WithFields(logrus.Fields{
		"type":    event.Type,
		"user_id": event.UserID,
		"title":   event.Title,
	}).Info(event.Message)
	return nil
}

// Fanout delivers each event to every notifier.
// Failures are logged and do not stop delivery to the rest.
type Fanout struct {
	notifiers []Notifier
	logger    *logrus.Logger
}

// NewFanout creates a notifier that forwards to all of notifiers
func NewFanout(logger *logrus.Logger, notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers, logger: logger}
}

// Notify forwards the event and returns the first error seen
func (f *Fanout) Notify(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var first error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			f.logger.WithFields(logrus.Fields{
				"type":  event.Type,
				"error": err.Error(),
			}).Warn("Notification delivery failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}
