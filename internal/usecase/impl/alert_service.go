package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"alerts/config"
	"alerts/internal/domain/constants"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/repository"
	"alerts/internal/domain/search"
	"alerts/internal/domain/service"
	"alerts/internal/errors"
	"alerts/internal/infra/metrics"
	"alerts/internal/usecase"
	"alerts/internal/util"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Reasons a record was not evaluated
const (
	SkipReasonLocked     = "locked"
	SkipReasonLockFailed = "lock_failed"
	SkipReasonLoadFailed = "load_failed"
	SkipReasonNoAlerts   = "no_active_alerts"
)

const (
	unlockTimeout        = 5 * time.Second
	defaultWorkers       = 4
	defaultEnumeratePage = 1000
	defaultSeenCap       = 200

	alertTestTitlePrefix = "Alert test: "
	alertTestNoMatchBody = "No listings match right now. You will be notified when one appears."
)

type alertService struct {
	cfg         config.AlertsConfig
	logger      *slog.Logger
	subscribers repository.SubscriberRepository
	locker      repository.RecordLocker
	offers      service.OfferSource
	notifier    *notifier
	metrics     *metrics.AlertMetrics
	now         func() time.Time
}

// AlertServiceParams holds dependencies for AlertUsecase, injected by Fx
type AlertServiceParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	Subscribers repository.SubscriberRepository
	Mailbox     repository.MailboxRepository
	Locker      repository.RecordLocker
	Offers      service.OfferSource
	Push        service.PushSender
	Metrics     *metrics.AlertMetrics `optional:"true"`
}

// NewAlertService creates the alert evaluation engine
func NewAlertService(params AlertServiceParams) usecase.AlertUsecase {
	cfg := params.Config.Alerts
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultEnumeratePage
	}
	if cfg.SeenCap <= 0 {
		cfg.SeenCap = defaultSeenCap
	}

	return &alertService{
		cfg:         cfg,
		logger:      params.Logger,
		subscribers: params.Subscribers,
		locker:      params.Locker,
		offers:      params.Offers,
		notifier: &notifier{
			mode:    cfg.DeliveryMode,
			mailbox: params.Mailbox,
			push:    params.Push,
			metrics: params.Metrics,
			logger:  params.Logger,
		},
		metrics: params.Metrics,
		now:     time.Now,
	}
}

// RunCycle enumerates records page by page and evaluates each page on a bounded pool.
func (s *alertService) RunCycle(ctx context.Context, opts usecase.CycleOptions) (*entity.CycleSummary, error) {
	start := s.now()
	summary := &entity.CycleSummary{
		DryRun:        opts.DryRun,
		Force:         opts.Force,
		Subscriptions: []*entity.SubscriptionSummary{},
	}

	s.logger.Info("[AlertEngine] Cycle started",
		slog.String("trigger", opts.Trigger),
		slog.Bool("force", opts.Force),
		slog.Bool("dry_run", opts.DryRun),
	)

	err := s.runCycle(ctx, opts, summary)
	s.metrics.ObserveCycle(opts.Trigger, s.now().Sub(start), err)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		s.logger.Error("[AlertEngine] Cycle aborted",
			slog.String("trigger", opts.Trigger),
			slog.Int("subscriptions_processed", summary.SubscriptionsProcessed),
			slog.Any("error", err),
		)

		return summary, err
	}

	s.logger.Info("[AlertEngine] Cycle finished",
		slog.String("trigger", opts.Trigger),
		slog.Int("subscriptions_processed", summary.SubscriptionsProcessed),
		slog.Int("alerts_evaluated", summary.AlertsEvaluated),
		slog.Int("notifications_queued", summary.NotificationsQueued),
		slog.Int("notifications_sent", summary.NotificationsSent),
		slog.Duration("duration", s.now().Sub(start)),
	)

	return summary, nil
}

func (s *alertService) runCycle(ctx context.Context, opts usecase.CycleOptions, summary *entity.CycleSummary) error {
	// SCAN based stores may return a key on more than one page.
	visited := make(map[string]struct{})
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		page, err := s.subscribers.List(ctx, cursor, s.cfg.PageSize)
		if err != nil {
			return errors.Wrap(err, "failed to enumerate subscriptions")
		}

		keys := make([]string, 0, len(page.Keys))
		for _, key := range page.Keys {
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			keys = append(keys, key)
		}

		results := make([]*entity.SubscriptionSummary, len(keys))
		var group errgroup.Group
		group.SetLimit(s.cfg.Workers)
		for i, key := range keys {
			group.Go(func() error {
				results[i] = s.processRecord(ctx, key, opts)

				return nil
			})
		}
		_ = group.Wait()

		for _, result := range results {
			if result != nil {
				mergeSubscriptionSummary(summary, result)
			}
		}

		if page.Cursor == "" {
			return errors.WithStack(ctx.Err())
		}
		cursor = page.Cursor
	}
}

func mergeSubscriptionSummary(summary *entity.CycleSummary, result *entity.SubscriptionSummary) {
	summary.Subscriptions = append(summary.Subscriptions, result)
	if result.Skipped == "" {
		summary.SubscriptionsProcessed++
	}
	summary.AlertsEvaluated += len(result.Alerts)
	for _, alert := range result.Alerts {
		if alert.Notified {
			summary.NotificationsSent++
		}
	}
	summary.NotificationsQueued += result.Queued()
	for _, msg := range result.Errors {
		summary.Errors = append(summary.Errors, result.Key+": "+msg)
	}
}

// alertEvaluation is the in-memory outcome of matching one alert.
type alertEvaluation struct {
	alert      entity.Alert
	summary    *entity.AlertSummary
	fresh      []entity.Listing
	fetchedIDs []string
	failed     bool
}

// processRecord runs Fetching, Matching, Diffing, Notifying and PersistingState for one record.
// It returns nil when the record disappeared after enumeration.
func (s *alertService) processRecord(ctx context.Context, key string, opts usecase.CycleOptions) *entity.SubscriptionSummary {
	result := &entity.SubscriptionSummary{Key: key, Alerts: []*entity.AlertSummary{}}
	logger := s.logger.With(slog.String("record", key))

	if !opts.DryRun {
		unlock, ok, err := s.locker.TryLock(ctx, key)
		if err != nil {
			logger.Warn("[AlertEngine] Failed to lock record", slog.Any("error", err))
			result.Skipped = SkipReasonLockFailed
			result.Errors = append(result.Errors, err.Error())
			s.metrics.IncSkipped(SkipReasonLockFailed)

			return result
		}
		if !ok {
			logger.Info("[AlertEngine] Record locked by another cycle, skipping")
			result.Skipped = SkipReasonLocked
			s.metrics.IncSkipped(SkipReasonLocked)

			return result
		}
		defer func() {
			unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
			defer cancel()
			if err := unlock(unlockCtx); err != nil {
				logger.Warn("[AlertEngine] Failed to unlock record", slog.Any("error", err))
			}
		}()
	}

	record, err := s.subscribers.Get(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		logger.Error("[AlertEngine] Failed to load record", slog.Any("error", err))
		result.Skipped = SkipReasonLoadFailed
		result.Errors = append(result.Errors, err.Error())
		s.metrics.IncSkipped(SkipReasonLoadFailed)

		return result
	}

	alerts := record.ActiveAlerts()
	if len(alerts) == 0 {
		result.Skipped = SkipReasonNoAlerts
		s.metrics.IncSkipped(SkipReasonNoAlerts)

		return result
	}

	listings, fetchErrors := s.fetchStores(ctx, logger, alerts)
	for storeID, fetchErr := range fetchErrors {
		result.Errors = append(result.Errors, "store "+storeID+": "+fetchErr.Error())
	}

	evaluations := make([]*alertEvaluation, 0, len(alerts))
	for _, alert := range alerts {
		seen := record.SeenFor(alert.ID, s.cfg.SeenScope)
		if opts.Force {
			seen = nil
		}
		evaluation := evaluateAlert(alert, listings, seen)
		for _, storeID := range alert.StoreIDs {
			if fetchErr, ok := fetchErrors[storeID]; ok {
				evaluation.summary.Error = joinError(evaluation.summary.Error, "store "+storeID+": "+fetchErr.Error())
			}
		}
		evaluations = append(evaluations, evaluation)
		result.Alerts = append(result.Alerts, evaluation.summary)
	}

	if opts.DryRun {
		return result
	}

	for _, evaluation := range evaluations {
		if len(evaluation.fresh) == 0 {
			continue
		}
		s.notifyAlert(ctx, logger, record, evaluation)
	}

	s.updateSeenState(record, evaluations, fetchedRecordIDs(alerts, listings))
	if err := s.persistSeenState(ctx, logger, key, record); err != nil {
		logger.Error("[AlertEngine] Failed to persist record", slog.Any("error", err))
		result.Errors = append(result.Errors, err.Error())
	}

	return result
}

// persistSeenState copies the evaluated seen state onto the stored record as it is now,
// so alert edits saved while the cycle ran are kept. A record deleted meanwhile stays deleted.
func (s *alertService) persistSeenState(ctx context.Context, logger *slog.Logger, key string, evaluated *entity.SubscriberRecord) error {
	current, err := s.subscribers.Get(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		logger.Info("[AlertEngine] Record removed during cycle, dropping seen state")

		return nil
	}
	if err != nil {
		return err
	}

	seen := make(map[string][]string, len(current.SeenByAlert)+len(evaluated.SeenByAlert))
	for alertID, ids := range current.SeenByAlert {
		seen[alertID] = ids
	}
	for alertID, ids := range evaluated.SeenByAlert {
		seen[alertID] = ids
	}
	current.SeenByAlert = seen
	current.LastSeenIDs = evaluated.LastSeenIDs
	pruneSeenByAlert(current)

	return s.subscribers.Put(ctx, current)
}

// fetchStores fetches the union of store ids once each. Failed stores contribute no listings.
func (s *alertService) fetchStores(ctx context.Context, logger *slog.Logger, alerts []entity.Alert) (map[string][]entity.Listing, map[string]error) {
	listings := make(map[string][]entity.Listing)
	failures := make(map[string]error)

	for _, storeID := range unionStoreIDs(alerts) {
		page, err := s.offers.FetchAllPages(ctx, service.OfferQuery{StoreID: storeID})
		s.metrics.IncCatalogFetch(err)
		if err != nil {
			logger.Warn("[AlertEngine] Store fetch failed",
				slog.String("store_id", storeID),
				slog.Any("error", err),
			)
			failures[storeID] = err
			listings[storeID] = nil

			continue
		}
		listings[storeID] = page.Listings
	}

	return listings, failures
}

func unionStoreIDs(alerts []entity.Alert) []string {
	all := make([]string, 0)
	for _, alert := range alerts {
		all = append(all, alert.StoreIDs...)
	}

	return search.ParseStoreIDList(all)
}

// evaluateAlert matches the alert's stores and splits the matches into fresh and seen.
func evaluateAlert(alert entity.Alert, listings map[string][]entity.Listing, seen []string) *alertEvaluation {
	evaluation := &alertEvaluation{
		alert: alert,
		summary: &entity.AlertSummary{
			AlertID:           alert.ID,
			Name:              alert.Name,
			SampleMissReasons: []entity.MissSample{},
		},
	}

	seenSet := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}
	freshSet := make(map[string]struct{})

	for _, storeID := range search.ParseStoreIDList(alert.StoreIDs) {
		for _, listing := range listings[storeID] {
			evaluation.summary.OffersFetched++
			if listing.ID != "" {
				evaluation.fetchedIDs = append(evaluation.fetchedIDs, listing.ID)
			}

			if strings.TrimSpace(listing.Text()) == "" {
				evaluation.summary.AddMiss(listing, entity.MissReasonMissingText)

				continue
			}
			if !search.MatchesAnyKeyword(listing, alert.Keywords) {
				evaluation.summary.AddMiss(listing, entity.MissReasonKeywordMiss)

				continue
			}
			evaluation.summary.OffersMatched++

			if listing.ID == "" {
				evaluation.summary.AddMiss(listing, entity.MissReasonMissingID)

				continue
			}
			if _, ok := seenSet[listing.ID]; ok {
				evaluation.summary.OffersSuppressedBySeen++
				evaluation.summary.AddMiss(listing, entity.MissReasonSeen)

				continue
			}
			if _, ok := freshSet[listing.ID]; ok {
				continue
			}
			freshSet[listing.ID] = struct{}{}
			evaluation.fresh = append(evaluation.fresh, listing)
		}
	}
	evaluation.summary.OffersFresh = len(evaluation.fresh)

	return evaluation
}

func (s *alertService) notifyAlert(ctx context.Context, logger *slog.Logger, record *entity.SubscriberRecord, evaluation *alertEvaluation) {
	payload := buildAlertPayload(s.cfg.DeepLinkBase, evaluation.alert, evaluation.fresh, s.now())
	evaluation.summary.NotificationID = payload.NotificationID

	outcome, err := s.notifier.deliver(ctx, record.PushTarget(), payload)
	evaluation.summary.Queued = outcome.Queued
	evaluation.summary.Notified = outcome.Sent
	if err == nil {
		logger.Info("[AlertEngine] Alert notified",
			slog.String("alert_id", evaluation.alert.ID),
			slog.Int("new_count", len(evaluation.fresh)),
			slog.String("notification_id", payload.NotificationID),
		)

		return
	}

	evaluation.failed = true
	evaluation.summary.Error = joinError(evaluation.summary.Error, err.Error())

	attrs := []any{
		slog.String("alert_id", evaluation.alert.ID),
		slog.Any("error", err),
	}
	var (
		signingErr    *domainerrors.SigningError
		encryptionErr *domainerrors.EncryptionError
	)
	switch {
	case errors.As(err, &signingErr), errors.As(err, &encryptionErr):
		logger.Error("[AlertEngine] Failed to build push message", attrs...)
	default:
		logger.Warn("[AlertEngine] Alert delivery failed", attrs...)
	}
}

// updateSeenState recomputes the seen lists from this cycle's fetch, newest first.
// Alerts whose delivery failed keep their previous list unless the policy marks them seen anyway;
// their fresh ids also stay out of the record-wide list so only they are retried.
func (s *alertService) updateSeenState(record *entity.SubscriberRecord, evaluations []*alertEvaluation, fetched []string) {
	keep := !s.cfg.MarksSeenOnDeliveryFailure()

	seenByAlert := make(map[string][]string, len(evaluations))
	for _, evaluation := range evaluations {
		alertID := evaluation.alert.ID
		previous := record.SeenFor(alertID, constants.SeenScopeAlert)
		if evaluation.failed && keep {
			seenByAlert[alertID] = previous

			continue
		}
		seenByAlert[alertID] = util.MergeRecent(evaluation.fetchedIDs, previous, s.cfg.SeenCap)
	}

	// Inactive alerts keep their history so toggling them back on does not renotify.
	for _, alert := range record.EffectiveAlerts() {
		if _, ok := seenByAlert[alert.ID]; ok {
			continue
		}
		if previous, ok := record.SeenByAlert[alert.ID]; ok {
			seenByAlert[alert.ID] = previous
		}
	}
	record.SeenByAlert = seenByAlert

	if keep {
		fetched = withoutUndelivered(fetched, evaluations)
	}
	record.LastSeenIDs = util.MergeRecent(fetched, record.LastSeenIDs, s.cfg.SeenCap)
}

// withoutUndelivered drops ids that were fresh for a failed alert and not delivered by any other alert.
func withoutUndelivered(fetched []string, evaluations []*alertEvaluation) []string {
	pending := make(map[string]struct{})
	for _, evaluation := range evaluations {
		if !evaluation.failed {
			continue
		}
		for _, listing := range evaluation.fresh {
			pending[listing.ID] = struct{}{}
		}
	}
	if len(pending) == 0 {
		return fetched
	}
	for _, evaluation := range evaluations {
		if evaluation.failed {
			continue
		}
		for _, listing := range evaluation.fresh {
			delete(pending, listing.ID)
		}
	}

	kept := make([]string, 0, len(fetched))
	for _, id := range fetched {
		if _, ok := pending[id]; !ok {
			kept = append(kept, id)
		}
	}

	return kept
}

// fetchedRecordIDs lists the ids of every listing fetched for the record in store order.
func fetchedRecordIDs(alerts []entity.Alert, listings map[string][]entity.Listing) []string {
	ids := make([]string, 0)
	for _, storeID := range unionStoreIDs(alerts) {
		for _, listing := range listings[storeID] {
			if listing.ID != "" {
				ids = append(ids, listing.ID)
			}
		}
	}

	return ids
}

// TestAlert evaluates one alert with force semantics and always delivers something.
func (s *alertService) TestAlert(ctx context.Context, endpoint string, alert entity.Alert) (*entity.AlertSummary, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, domainerrors.ErrMissingEndpoint
	}
	alert.Active = true
	alert.StoreIDs = search.ParseStoreIDList(alert.StoreIDs)
	if alert.ID == "" {
		alert.ID = "test"
	}
	if !alert.Evaluable() {
		return nil, domainerrors.ErrInvalidAlert
	}

	record, err := s.subscribers.GetByEndpoint(ctx, endpoint)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, domainerrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(slog.String("record", s.subscribers.Key(endpoint)))
	listings, fetchErrors := s.fetchStores(ctx, logger, []entity.Alert{alert})
	if len(fetchErrors) == len(alert.StoreIDs) {
		return nil, domainerrors.ErrUpstreamUnavailable.WithDetails(fetchErrors[alert.StoreIDs[0]].Error())
	}

	evaluation := evaluateAlert(alert, listings, nil)

	var payload *entity.NotificationPayload
	if len(evaluation.fresh) > 0 {
		payload = buildAlertPayload(s.cfg.DeepLinkBase, alert, evaluation.fresh, s.now())
	} else {
		payload = buildAlertPayload(s.cfg.DeepLinkBase, alert, nil, s.now())
		payload.Title = alertTestTitlePrefix + alertDisplayName(alert)
		payload.Body = alertTestNoMatchBody
	}
	evaluation.summary.NotificationID = payload.NotificationID

	outcome, err := s.notifier.deliver(ctx, record.PushTarget(), payload)
	evaluation.summary.Queued = outcome.Queued
	evaluation.summary.Notified = outcome.Sent
	if err != nil {
		return evaluation.summary, domainerrors.ErrPushFailed.WithDetails(err.Error())
	}

	return evaluation.summary, nil
}

func alertDisplayName(alert entity.Alert) string {
	if alert.Name != "" {
		return alert.Name
	}

	return strings.Join(alert.Keywords, ", ")
}

func joinError(current, next string) string {
	if current == "" {
		return next
	}

	return current + "; " + next
}
