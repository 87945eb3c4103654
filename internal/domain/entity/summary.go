package entity

// Miss reasons sampled in alert summaries.
const (
	MissReasonMissingID   = "missing_id"
	MissReasonMissingText = "missing_text"
	MissReasonKeywordMiss = "keyword_miss"
	MissReasonSeen        = "seen"
)

// MaxMissSamples bounds SampleMissReasons per alert.
const MaxMissSamples = 5

// MissSample explains why one listing did not notify.
type MissSample struct {
	ListingID string `json:"listingId,omitempty"`
	Title     string `json:"title,omitempty"`
	Reason    string `json:"reason"`
}

// AlertSummary is the per-alert outcome of one cycle.
type AlertSummary struct {
	AlertID                string       `json:"alertId"`
	Name                   string       `json:"name"`
	OffersFetched          int          `json:"offersFetched"`
	OffersMatched          int          `json:"offersMatched"`
	OffersFresh            int          `json:"offersFresh"`
	OffersSuppressedBySeen int          `json:"offersSuppressedBySeen"`
	SampleMissReasons      []MissSample `json:"sampleMissReasons"`
	Queued                 bool         `json:"queued"`
	Notified               bool         `json:"notified"`
	NotificationID         string       `json:"notificationId,omitempty"`
	Error                  string       `json:"error,omitempty"`
}

// AddMiss records a miss sample while under the cap.
func (s *AlertSummary) AddMiss(listing Listing, reason string) {
	if len(s.SampleMissReasons) >= MaxMissSamples {
		return
	}
	s.SampleMissReasons = append(s.SampleMissReasons, MissSample{
		ListingID: listing.ID,
		Title:     listing.Title,
		Reason:    reason,
	})
}

// SubscriptionSummary is the per-record outcome of one cycle.
type SubscriptionSummary struct {
	Key     string          `json:"key"`
	Skipped string          `json:"skipped,omitempty"`
	Alerts  []*AlertSummary `json:"alerts"`
	Errors  []string        `json:"errors,omitempty"`
}

// Queued counts the alerts whose payload reached the mailbox.
func (s *SubscriptionSummary) Queued() int {
	queued := 0
	for _, alert := range s.Alerts {
		if alert.Queued {
			queued++
		}
	}

	return queued
}

// CycleSummary is returned by every evaluation cycle, including dry runs.
type CycleSummary struct {
	DryRun                 bool                   `json:"dryRun"`
	Force                  bool                   `json:"force"`
	SubscriptionsProcessed int                    `json:"subscriptionsProcessed"`
	AlertsEvaluated        int                    `json:"alertsEvaluated"`
	NotificationsQueued    int                    `json:"notificationsQueued"`
	NotificationsSent      int                    `json:"notificationsSent"`
	Subscriptions          []*SubscriptionSummary `json:"subscriptions"`
	Errors                 []string               `json:"errors,omitempty"`
}
