package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-helpdesk/helpdesk-service/internal/config"
	"github.com/campus-helpdesk/helpdesk-service/internal/events"
	"github.com/campus-helpdesk/helpdesk-service/internal/worker"
)

// NotificationService turns domain events into queued notifications. Email
// and webhook delivery are stubbed to structured log lines; the queue and
// fan-out are real so a transport can be swapped in behind Sender.
type NotificationService struct {
	worker *worker.NotificationWorker
	cfg    config.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService constructs the service and registers its event
// subscriptions on the dispatcher.
func NewNotificationService(
	dispatcher events.Dispatcher,
	notifier *worker.NotificationWorker,
	cfg config.NotificationConfig,
	logger *zap.Logger,
) *NotificationService {
	s := &NotificationService{worker: notifier, cfg: cfg, logger: logger}
	dispatcher.Subscribe(events.EventTicketCreated, s.onTicketCreated)
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.onStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, s.onAssigned)
	dispatcher.Subscribe(events.EventReplyAdded, s.onReplyAdded)
	dispatcher.Subscribe(events.EventPaymentVerified, s.onPaymentVerified)
	return s
}

func (s *NotificationService) onTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: s.cfg.EmailFrom,
		Subject:   "New ticket: " + payload.Title,
		Body:      fmt.Sprintf("Ticket %s opened with priority %s", event.SubjectID, payload.Priority),
		Kind:      "ticket_created",
	})
	return nil
}

func (s *NotificationService) onStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: s.cfg.EmailFrom,
		Subject:   "Ticket status changed",
		Body:      fmt.Sprintf("Ticket %s moved %s -> %s", event.SubjectID, payload.OldStatus, payload.NewStatus),
		Kind:      "status_changed",
	})
	return nil
}

func (s *NotificationService) onAssigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: s.cfg.EmailFrom,
		Subject:   "Ticket assigned",
		Body:      fmt.Sprintf("Ticket %s assigned to staff %s", event.SubjectID, payload.AssigneeStaffID),
		Kind:      "ticket_assigned",
	})
	return nil
}

func (s *NotificationService) onReplyAdded(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReplyAddedPayload)
	if !ok {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: s.cfg.EmailFrom,
		Subject:   "New reply on ticket",
		Body:      fmt.Sprintf("Ticket %s: %s", event.SubjectID, payload.BodyPreview),
		Kind:      "reply_added",
	})
	return nil
}

func (s *NotificationService) onPaymentVerified(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentVerifiedPayload)
	if !ok {
		return nil
	}
	s.worker.Enqueue(worker.Notification{
		Recipient: s.cfg.EmailFrom,
		Subject:   "Payment verification recorded",
		Body: fmt.Sprintf("Transaction %s: recommendation=%t decision=%t status=%s",
			payload.TransactionNumber, payload.Recommendation, payload.FinalDecision, payload.Status),
		Kind: "payment_verified",
	})
	return nil
}

// LogSender writes notifications to the structured log. It stands in for
// the SMTP and webhook transports.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender builds the sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, notification worker.Notification) error {
	s.logger.Info("notification",
		zap.String("kind", notification.Kind),
		zap.String("recipient", notification.Recipient),
		zap.String("subject", notification.Subject),
		zap.String("body", notification.Body))
	return nil
}
