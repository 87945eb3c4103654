package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"alerts/config"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/domain/search"
	"alerts/internal/domain/service"
	"alerts/internal/errors"
	"alerts/internal/infra/metrics"
	"alerts/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	testNotificationTitle = "IKEA Second-Hand Test"
	testNotificationBody  = "This is a test notification."
)

type subscriptionService struct {
	subscribers repository.SubscriberRepository
	mailbox     repository.MailboxRepository
	notifier    *notifier
	logger      *slog.Logger
	now         func() time.Time
}

// SubscriptionServiceParams holds dependencies for SubscriptionService, injected by Fx.
type SubscriptionServiceParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	Subscribers repository.SubscriberRepository
	Mailbox     repository.MailboxRepository
	Push        service.PushSender
	Metrics     *metrics.AlertMetrics `optional:"true"`
}

// NewSubscriptionService creates a new subscription service instance
func NewSubscriptionService(params SubscriptionServiceParams) usecase.SubscriptionUsecase {
	return &subscriptionService{
		subscribers: params.Subscribers,
		mailbox:     params.Mailbox,
		notifier: &notifier{
			mode:    params.Config.Alerts.DeliveryMode,
			mailbox: params.Mailbox,
			push:    params.Push,
			metrics: params.Metrics,
			logger:  params.Logger,
		},
		logger: params.Logger,
		now:    time.Now,
	}
}

// Subscribe keeps seen state and creation time when the endpoint is already known
func (s *subscriptionService) Subscribe(ctx context.Context, input usecase.SubscribeInput) (*entity.SubscriberRecord, error) {
	endpoint := strings.TrimSpace(input.Subscription.Endpoint)
	storeIDs := search.ParseStoreIDList(input.StoreIDs)
	if endpoint == "" || (len(storeIDs) == 0 && len(input.Alerts) == 0) {
		return nil, domainerrors.ErrMissingSubscription
	}

	alerts, err := normalizeAlerts(input.Alerts)
	if err != nil {
		return nil, err
	}

	record, err := s.subscribers.GetByEndpoint(ctx, endpoint)
	if errors.Is(err, repository.ErrKeyNotFound) {
		record = &entity.SubscriberRecord{LastSeenIDs: []string{}}
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to load subscription")
	}

	input.Subscription.Endpoint = endpoint
	record.Endpoint = endpoint
	record.Subscription = input.Subscription
	record.Keywords = normalizeKeywords(input.Keywords)
	record.StoreIDs = storeIDs
	record.Alerts = alerts
	pruneSeenByAlert(record)

	if err := s.subscribers.Put(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to save subscription")
	}

	s.logger.Info("Subscription saved",
		slog.String("record", s.subscribers.Key(endpoint)),
		slog.Int("alerts", len(record.Alerts)),
	)

	return record, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return domainerrors.ErrMissingEndpoint
	}

	if err := s.subscribers.DeleteByEndpoint(ctx, endpoint); err != nil {
		return errors.Wrap(err, "failed to delete subscription")
	}

	return nil
}

// UpdateAlerts replaces the alert list and forgets seen state of removed alerts
func (s *subscriptionService) UpdateAlerts(ctx context.Context, endpoint string, alerts []entity.Alert) (*entity.SubscriberRecord, error) {
	normalized, err := normalizeAlerts(alerts)
	if err != nil {
		return nil, err
	}

	record, err := s.GetSubscription(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	record.Alerts = normalized
	pruneSeenByAlert(record)

	if err := s.subscribers.Put(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to save alerts")
	}

	return record, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, endpoint string) (*entity.SubscriberRecord, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, domainerrors.ErrMissingEndpoint
	}

	record, err := s.subscribers.GetByEndpoint(ctx, endpoint)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, domainerrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load subscription")
	}

	return record, nil
}

func (s *subscriptionService) SendTestNotification(ctx context.Context, endpoint string) (*entity.NotificationPayload, error) {
	record, err := s.GetSubscription(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	payload := &entity.NotificationPayload{
		Title:          testNotificationTitle,
		Body:           testNotificationBody,
		URL:            "/",
		NotificationID: uuid.NewString(),
		CreatedAt:      s.now().UTC(),
	}

	if _, err := s.notifier.deliver(ctx, record.PushTarget(), payload); err != nil {
		s.logger.Warn("Test notification failed",
			slog.String("record", s.subscribers.Key(record.Endpoint)),
			slog.Any("error", err),
		)

		return nil, domainerrors.ErrPushFailed.WithDetails(err.Error())
	}

	return payload, nil
}

func (s *subscriptionService) NextNotification(ctx context.Context, endpoint string) (*entity.NotificationPayload, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, domainerrors.ErrMissingEndpoint
	}

	payload, err := s.mailbox.Dequeue(ctx, endpoint)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, domainerrors.ErrMailboxEmpty
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mailbox")
	}

	return payload, nil
}

// normalizeAlerts trims alert fields and keeps the first alert per id
func normalizeAlerts(alerts []entity.Alert) ([]entity.Alert, error) {
	normalized := make([]entity.Alert, 0, len(alerts))
	ids := make(map[string]struct{}, len(alerts))

	for _, alert := range alerts {
		alert.ID = strings.TrimSpace(alert.ID)
		if alert.ID == "" {
			return nil, domainerrors.ErrInvalidAlert.WithDetails("alert id is required")
		}
		if _, dup := ids[alert.ID]; dup {
			continue
		}
		ids[alert.ID] = struct{}{}

		alert.Name = strings.TrimSpace(alert.Name)
		alert.Keywords = normalizeKeywords(alert.Keywords)
		alert.StoreIDs = search.ParseStoreIDList(alert.StoreIDs)
		normalized = append(normalized, alert)
	}

	return normalized, nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword = search.NormalizeQuery(keyword); keyword != "" {
			out = append(out, keyword)
		}
	}

	return out
}

// pruneSeenByAlert drops seen lists of alerts that no longer exist
func pruneSeenByAlert(record *entity.SubscriberRecord) {
	if len(record.SeenByAlert) == 0 {
		return
	}

	current := make(map[string]struct{})
	for _, alert := range record.EffectiveAlerts() {
		current[alert.ID] = struct{}{}
	}
	for alertID := range record.SeenByAlert {
		if _, ok := current[alertID]; !ok {
			delete(record.SeenByAlert, alertID)
		}
	}
}
