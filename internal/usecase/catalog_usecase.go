package usecase

import (
	"context"
	"encoding/json"

	"alerts/internal/domain/entity"
)

// ItemsQuery is a catalog search across one or more stores
type ItemsQuery struct {
	StoreIDs     []string
	Query        string
	LanguageCode string
	Size         int
	AllPages     bool
	Debug        bool
}

// ItemsDebug explains how a search was answered
type ItemsDebug struct {
	StoreIDList     []string `json:"storeIdList"`
	Query           string   `json:"query"`
	VariantsTried   []string `json:"variantsTried"`
	RawCount        int      `json:"rawCount"`
	NormalizedCount int      `json:"normalizedCount"`
}

// ItemsResult carries the upstream items unchanged
type ItemsResult struct {
	Content []json.RawMessage `json:"content"`
	Debug   *ItemsDebug       `json:"debug,omitempty"`
}

// CatalogUsecase defines the catalog browsing use cases
type CatalogUsecase interface {
	// SearchItems searches the catalog. A single-store search whose full phrase
	// finds nothing retries the looser query variants.
	SearchItems(ctx context.Context, query ItemsQuery) (*ItemsResult, error)

	// Stores lists the configured stores
	Stores() []entity.Store
}
