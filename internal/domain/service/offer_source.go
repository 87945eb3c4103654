package service

import (
	"context"

	"alerts/internal/domain/entity"
)

// OfferQuery addresses one page of the catalog search for one store.
type OfferQuery struct {
	StoreID      string
	Query        string
	LanguageCode string
	Size         int
	Page         int
}

// OfferPage is the normalized result of one or more catalog pages.
type OfferPage struct {
	Listings     []entity.Listing
	RawCount     int
	TotalPages   int
	PagesFetched int
}

// OfferSource fetches listings from the second-hand catalog.
type OfferSource interface {
	// FetchOffers fetches a single page.
	FetchOffers(ctx context.Context, query OfferQuery) (*OfferPage, error)

	// FetchAllPages fetches page 0 and every following page up to the page cap.
	// Any failing page aborts the whole fetch.
	FetchAllPages(ctx context.Context, query OfferQuery) (*OfferPage, error)
}
