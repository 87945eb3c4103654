package entity

import (
	"encoding/json"
	"time"
)

// Listing is a normalized catalog offer. It only lives for one evaluation.
type Listing struct {
	ID          string          `json:"id"`            // Stable offer id; empty means the listing is unmatchable.
	Title       string          `json:"title"`         // title or name.
	Description string          `json:"description"`   // description or shortDescription.
	StoreID     string          `json:"storeId"`       // Store the listing was fetched from.
	Raw         json.RawMessage `json:"raw,omitempty"` // Original upstream item.
}

// Text is the searchable text of the listing.
func (l Listing) Text() string {
	if l.Description == "" {
		return l.Title
	}

	return l.Title + " " + l.Description
}

// NotificationPayload is the content shown by the service worker.
type NotificationPayload struct {
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	URL            string    `json:"url"`
	AlertID        string    `json:"alertId,omitempty"`
	NewCount       int       `json:"newCount,omitempty"`
	NotificationID string    `json:"notificationId"`
	CreatedAt      time.Time `json:"createdAt"`
}
