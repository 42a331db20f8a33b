package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/events"
)

// NotificationService handles emitting notifications for domain events. It is
// also the single subscription point for permission-change fan-out.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOperatorCreated, n.handleOperatorCreated)
	n.dispatcher.Subscribe(events.EventOperatorPermissionsChanged, n.handleOperatorPermissionsChanged)
	n.dispatcher.Subscribe(events.EventOperatorStatusChanged, n.handleOperatorStatusChanged)
	n.dispatcher.Subscribe(events.EventOperatorRemoved, n.handleOperatorRemoved)
	n.dispatcher.Subscribe(events.EventVerificationDecided, n.handleVerificationDecided)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
}

func (n *NotificationService) handleOperatorCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("OperatorCreated", zap.String("operator_id", event.TargetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOperatorPermissionsChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OperatorPermissionsChanged", zap.String("operator_id", event.TargetID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOperatorStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OperatorStatusChanged", zap.String("operator_id", event.TargetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOperatorRemoved(ctx context.Context, event events.Event) error {
	n.logger.Info("OperatorRemoved", zap.String("operator_id", event.TargetID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVerificationDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("VerificationDecided", zap.String("subject_id", event.TargetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TargetID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("target_id", event.TargetID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("target_id", event.TargetID),
		zap.String("event_type", string(event.Type)))
}
