package services

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/dezx-api/internal/access"
	"github.com/yukikurage/dezx-api/internal/constants"
	"github.com/yukikurage/dezx-api/internal/metrics"
	"github.com/yukikurage/dezx-api/internal/models"
	"github.com/yukikurage/dezx-api/internal/repository"
)

// Notifier writes the notifications and audit entries derived from a
// committed transition. Writes are best effort: a failure is logged, counted
// and reported, and never returned to the caller.
type Notifier struct {
	notifications repository.NotificationRepository
	audit         repository.AuditLogRepository
	log           logrus.FieldLogger
}

// NewNotifier creates a new Notifier
func NewNotifier(notifications repository.NotificationRepository, audit repository.AuditLogRepository, log logrus.FieldLogger) *Notifier {
	return &Notifier{
		notifications: notifications,
		audit:         audit,
		log:           log,
	}
}

// Notification describes one notification to fan out.
type Notification struct {
	Type     models.NotificationType
	Message  string
	ToUserID string
	Link     string
}

// Notify stores the notification. A targeted notification also gets an
// admin broadcast copy with the message prefixed.
func (n *Notifier) Notify(ctx context.Context, note Notification) {
	ctx = context.WithoutCancel(ctx)

	records := []models.Notification{newNotification(note, note.ToUserID, note.Message)}
	if note.ToUserID != "" {
		records = append(records, newNotification(note, "", constants.AdminNotificationPrefix+note.Message))
	}

	if err := n.notifications.CreateBatch(ctx, records); err != nil {
		n.fail(ctx, "notification", err, logrus.Fields{
			"type":       note.Type,
			"to_user_id": note.ToUserID,
		})
	}
}

// NotifyUsers stores one notification per recipient, without admin copies.
func (n *Notifier) NotifyUsers(ctx context.Context, userIDs []string, note Notification) int {
	ctx = context.WithoutCancel(ctx)

	records := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		records = append(records, newNotification(note, id, note.Message))
	}

	if err := n.notifications.CreateBatch(ctx, records); err != nil {
		n.fail(ctx, "notification", err, logrus.Fields{
			"type":       note.Type,
			"recipients": len(records),
		})
		return 0
	}
	return len(records)
}

// AuditEntry describes a moderation action.
type AuditEntry struct {
	Action      models.AuditAction
	EntityType  models.EntityType
	EntityID    string
	Description string
}

// Audit appends an entry when the actor is a superadmin. Actions by owners
// are not moderation and leave no trail.
func (n *Notifier) Audit(ctx context.Context, actor access.Caller, entry AuditEntry) {
	if !actor.IsSuperadmin() {
		return
	}
	ctx = context.WithoutCancel(ctx)

	record := &models.AuditLog{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActionType:  entry.Action,
		EntityType:  entry.EntityType,
		Description: entry.Description,
	}
	if entry.EntityID != "" {
		id := entry.EntityID
		record.EntityID = &id
	}

	if err := n.audit.Create(ctx, record); err != nil {
		n.fail(ctx, "audit", err, logrus.Fields{
			"action":      entry.Action,
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"actor_id":    actor.ID,
		})
	}
}

func (n *Notifier) fail(ctx context.Context, kind string, err error, fields logrus.Fields) {
	metrics.RecordFanoutFailure(kind)
	n.log.WithFields(fields).WithError(err).Warn("fan-out write failed")

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(fmt.Errorf("%s fan-out: %w", kind, err))
}

func newNotification(note Notification, toUserID, message string) models.Notification {
	record := models.Notification{
		Type:    note.Type,
		Message: message,
	}
	if toUserID != "" {
		record.ToUserID = &toUserID
	}
	if note.Link != "" {
		link := note.Link
		record.Link = &link
	}
	return record
}
