package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"alerts/internal/domain/constants"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/domain/service"
	"alerts/internal/errors"
	"alerts/internal/infra/metrics"

	"github.com/google/uuid"
)

const fallbackListingTitle = "New IKEA listing"

// deliveryOutcome reports which delivery steps succeeded.
type deliveryOutcome struct {
	Queued bool
	Sent   bool
}

// notifier delivers one payload to one subscription in the configured mode.
type notifier struct {
	mode    string
	mailbox repository.MailboxRepository
	push    service.PushSender
	metrics *metrics.AlertMetrics
	logger  *slog.Logger
}

// deliver returns the steps that succeeded even when a later step fails.
func (n *notifier) deliver(ctx context.Context, sub entity.PushSubscription, payload *entity.NotificationPayload) (deliveryOutcome, error) {
	var outcome deliveryOutcome

	if n.mode == constants.DeliveryModePayload && sub.HasKeys() {
		body, err := json.Marshal(payload)
		if err != nil {
			return outcome, errors.WithStack(err)
		}
		if _, err := n.push.Send(ctx, sub, body); err != nil {
			n.metrics.IncNotification(constants.DeliveryModePayload, metrics.OutcomeFailure)

			return outcome, err
		}
		n.metrics.IncNotification(constants.DeliveryModePayload, metrics.OutcomeSent)
		outcome.Sent = true

		return outcome, nil
	}

	if err := n.mailbox.Enqueue(ctx, sub.Endpoint, payload); err != nil {
		n.metrics.IncNotification(constants.DeliveryModeMailbox, metrics.OutcomeFailure)

		return outcome, err
	}
	n.metrics.IncNotification(constants.DeliveryModeMailbox, metrics.OutcomeQueued)
	outcome.Queued = true

	if _, err := n.push.Send(ctx, sub, nil); err != nil {
		n.metrics.IncNotification(constants.DeliveryModeMailbox, metrics.OutcomeFailure)
		if deliveryErr, ok := errors.AsTarget[*domainerrors.DeliveryError](err); ok && deliveryErr.Gone() {
			n.logger.Warn("Push endpoint is gone, keeping subscription",
				slog.String("endpoint", sub.Endpoint),
				slog.Int("status", deliveryErr.StatusCode),
			)
		}

		return outcome, err
	}
	n.metrics.IncNotification(constants.DeliveryModeMailbox, metrics.OutcomeSent)
	outcome.Sent = true

	return outcome, nil
}

// buildAlertPayload summarizes the fresh listings of one alert.
func buildAlertPayload(deepLinkBase string, alert entity.Alert, fresh []entity.Listing, now time.Time) *entity.NotificationPayload {
	title := fallbackListingTitle
	if len(fresh) > 0 && strings.TrimSpace(fresh[0].Title) != "" {
		title = fresh[0].Title
	}

	notificationID := uuid.NewString()

	return &entity.NotificationPayload{
		Title:          title,
		Body:           fmt.Sprintf("Found %d new match(es). Tap to view.", len(fresh)),
		URL:            buildDeepLink(deepLinkBase, alert, notificationID),
		AlertID:        alert.ID,
		NewCount:       len(fresh),
		NotificationID: notificationID,
		CreatedAt:      now.UTC(),
	}
}

// buildDeepLink opens the listings tab filtered to the alert.
func buildDeepLink(base string, alert entity.Alert, notificationID string) string {
	if base == "" {
		base = "/"
	}

	params := [][2]string{
		{"tab", "listings"},
		{"alertId", alert.ID},
		{"storeIds", strings.Join(alert.StoreIDs, ",")},
		{"keywords", strings.Join(alert.Keywords, ",")},
		{"notificationId", notificationID},
	}

	var b strings.Builder
	b.WriteString(base)
	if strings.Contains(base, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	for i, param := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(param[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param[1]))
	}

	return b.String()
}
