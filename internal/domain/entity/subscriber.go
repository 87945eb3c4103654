// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"alerts/internal/domain/constants"
)

// PushKeys are the browser-generated keys needed to encrypt a push payload.
type PushKeys struct {
	P256dh string `json:"p256dh"` // Base64url uncompressed P-256 public key of the user agent.
	Auth   string `json:"auth"`   // Base64url 16-byte authentication secret.
}

// PushSubscription is the identity returned by the browser's PushManager.
type PushSubscription struct {
	Endpoint       string   `json:"endpoint"`                 // Push service URL for this browser.
	ExpirationTime *int64   `json:"expirationTime,omitempty"` // Optional expiry in epoch milliseconds.
	Keys           PushKeys `json:"keys"`                     // Payload encryption keys.
}

// HasKeys reports whether payloads can be encrypted for this subscription.
func (s PushSubscription) HasKeys() bool {
	return s.Keys.P256dh != "" && s.Keys.Auth != ""
}

// Alert is one named keyword filter over a set of stores.
type Alert struct {
	ID       string   `json:"id"`       // Client-generated identifier, unique within a record.
	Name     string   `json:"name"`     // Display name.
	Keywords []string `json:"keywords"` // Any keyword matching a listing is a hit.
	StoreIDs []string `json:"storeIds"` // Catalog stores to search.
	Active   bool     `json:"active"`   // Inactive alerts are never evaluated.
}

// Evaluable reports whether the alert can produce matches at all.
func (a Alert) Evaluable() bool {
	return a.Active && len(a.Keywords) > 0 && len(a.StoreIDs) > 0
}

// SubscriberRecord is the persisted state for one push subscription.
type SubscriberRecord struct {
	Endpoint     string              `json:"endpoint"`              // Same as Subscription.Endpoint, kept for key derivation.
	Subscription PushSubscription    `json:"subscription"`          // Push identity.
	Alerts       []Alert             `json:"alerts"`                // Ordered, unique by ID.
	Keywords     []string            `json:"keywords,omitempty"`    // Legacy record-level filter.
	StoreIDs     []string            `json:"storeIds,omitempty"`    // Legacy record-level filter.
	LastSeenIDs  []string            `json:"lastSeenIds"`           // Record-wide seen list, most recent first.
	SeenByAlert  map[string][]string `json:"seenByAlert,omitempty"` // Per-alert seen lists keyed by alert ID.
	CreatedAt    time.Time           `json:"createdAt"`             // Timestamp of the first subscribe.
	UpdatedAt    time.Time           `json:"updatedAt"`             // Timestamp of the last write.
}

// EffectiveAlerts returns the alerts to evaluate, folding the legacy
// record-level keywords and store ids into an implicit default alert.
func (r *SubscriberRecord) EffectiveAlerts() []Alert {
	if len(r.Alerts) > 0 {
		return r.Alerts
	}
	if len(r.Keywords) == 0 || len(r.StoreIDs) == 0 {
		return nil
	}

	return []Alert{{
		ID:       constants.DefaultAlertID,
		Name:     strings.Join(r.Keywords, ", "),
		Keywords: r.Keywords,
		StoreIDs: r.StoreIDs,
		Active:   true,
	}}
}

// ActiveAlerts returns the evaluable alerts in record order.
func (r *SubscriberRecord) ActiveAlerts() []Alert {
	all := r.EffectiveAlerts()
	active := make([]Alert, 0, len(all))
	for _, alert := range all {
		if alert.Evaluable() {
			active = append(active, alert)
		}
	}

	return active
}

// SeenFor returns the seen ids that suppress a listing for the given alert.
// An alert without its own entry falls back to the record-wide list.
func (r *SubscriberRecord) SeenFor(alertID, scope string) []string {
	if scope == constants.SeenScopeRecord {
		return r.LastSeenIDs
	}
	if seen, ok := r.SeenByAlert[alertID]; ok {
		return seen
	}

	return r.LastSeenIDs
}

// PushTarget returns the subscription to deliver to, filling a missing
// endpoint from the record.
func (r *SubscriberRecord) PushTarget() PushSubscription {
	target := r.Subscription
	if target.Endpoint == "" {
		target.Endpoint = r.Endpoint
	}

	return target
}
