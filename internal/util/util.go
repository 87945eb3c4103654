package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"time"
)

// HashEndpoint returns the lowercase hex SHA-256 of a push endpoint, the stable storage identity of a subscriber.
func HashEndpoint(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))

	return hex.EncodeToString(sum[:])
}

// MergeRecent puts fresh ids in front of previous ones, dropping duplicates and empties, and keeps at most limit entries.
func MergeRecent(fresh, previous []string, limit int) []string {
	merged := make([]string, 0, min(len(fresh)+len(previous), max(limit, 0)))
	seen := make(map[string]struct{}, len(fresh)+len(previous))

	for _, id := range slices.Concat(fresh, previous) {
		if len(merged) >= limit {
			break
		}
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}

	return merged
}

// FormatDuration formats duration into human readable format (e.g., "1h30m", "5m10s", "45s").
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}
