package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"alerts/internal/domain/entity"
)

// extractor pulls the item array out of one known response shape.
type extractor struct {
	name    string
	extract func(fields map[string]json.RawMessage) ([]json.RawMessage, bool)
}

// extractors are tried in order; the first shape present wins.
var extractors = []extractor{
	arrayField("content"),
	arrayField("offers"),
	arrayField("items"),
	arrayField("groupedOffers"),
	{name: "groups", extract: groupOffers},
	arrayField("data"),
}

func arrayField(name string) extractor {
	return extractor{
		name: name,
		extract: func(fields map[string]json.RawMessage) ([]json.RawMessage, bool) {
			return asArray(fields[name])
		},
	}
}

// groupOffers flattens groups[*].offers and only claims the response when that yields items.
func groupOffers(fields map[string]json.RawMessage) ([]json.RawMessage, bool) {
	groups, ok := asArray(fields["groups"])
	if !ok {
		return nil, false
	}

	var items []json.RawMessage
	for _, group := range groups {
		var groupFields map[string]json.RawMessage
		if err := json.Unmarshal(group, &groupFields); err != nil {
			continue
		}
		offers, _ := asArray(groupFields["offers"])
		items = append(items, offers...)
	}

	return items, len(items) > 0
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}

	return items, true
}

// extractItems returns the raw items of a search response and the extractor that found them.
// A body with none of the known shapes yields no items.
func extractItems(fields map[string]json.RawMessage) ([]json.RawMessage, string) {
	for _, ex := range extractors {
		if items, ok := ex.extract(fields); ok {
			return items, ex.name
		}
	}

	return nil, ""
}

// flexString accepts a JSON string or number; null decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexString(n.String())

	return nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}

	var value flexString
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	return string(value)
}

func firstElement(fields map[string]json.RawMessage, name string) map[string]json.RawMessage {
	items, ok := asArray(fields[name])
	if !ok || len(items) == 0 {
		return nil
	}

	var first map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &first); err != nil {
		return nil
	}

	return first
}

func firstString(fields map[string]json.RawMessage, name string) string {
	items, ok := asArray(fields[name])
	if !ok || len(items) == 0 {
		return ""
	}

	var value flexString
	if err := json.Unmarshal(items[0], &value); err != nil {
		return ""
	}

	return string(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// normalizeItem maps one upstream item onto a Listing. Items that are not objects or carry
// no usable identifier come back without an ID.
func normalizeItem(raw json.RawMessage, storeID string) entity.Listing {
	listing := entity.Listing{StoreID: storeID, Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return listing
	}

	offer := firstElement(fields, "offers")
	listing.ID = firstNonEmpty(
		stringField(offer, "id"),
		stringField(offer, "offerUuid"),
		stringField(fields, "id"),
		stringField(fields, "offerId"),
		firstString(fields, "articleNumbers"),
		stringField(fields, "articleNumber"),
	)
	listing.Title = firstNonEmpty(stringField(fields, "title"), stringField(fields, "name"))
	listing.Description = firstNonEmpty(stringField(fields, "description"), stringField(fields, "shortDescription"))

	return listing
}
