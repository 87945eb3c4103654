package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"alerts/config"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/search"
	"alerts/internal/domain/service"
	"alerts/internal/usecase"

	"go.uber.org/fx"
)

type catalogService struct {
	offers service.OfferSource
	stores []entity.Store
	logger *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Offers service.OfferSource
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	stores := make([]entity.Store, 0, len(params.Config.Catalog.Stores))
	for _, store := range params.Config.Catalog.Stores {
		stores = append(stores, entity.Store{ID: store.ID, Name: store.Name})
	}

	return &catalogService{
		offers: params.Offers,
		stores: stores,
		logger: params.Logger,
	}
}

func (s *catalogService) Stores() []entity.Store {
	return s.stores
}

// SearchItems queries every store with the normalized phrase. Only single-store
// searches fall back to the looser query variants, merging unique listings.
func (s *catalogService) SearchItems(ctx context.Context, query usecase.ItemsQuery) (*usecase.ItemsResult, error) {
	storeIDs := search.ParseStoreIDList(query.StoreIDs)
	if len(storeIDs) == 0 {
		return nil, domainerrors.ErrMissingStoreIDs
	}

	phrase := search.NormalizeQuery(query.Query)
	debug := &usecase.ItemsDebug{
		StoreIDList:   storeIDs,
		Query:         phrase,
		VariantsTried: []string{},
	}

	collector := newListingCollector()
	for _, storeID := range storeIDs {
		page, err := s.fetch(ctx, query, storeID, phrase)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(debug.VariantsTried, phrase) {
			debug.VariantsTried = append(debug.VariantsTried, phrase)
		}
		debug.RawCount += page.RawCount
		collector.add(page.Listings)
	}

	if len(storeIDs) == 1 && collector.len() == 0 && phrase != "" {
		for _, variant := range search.BuildQueryVariants(phrase)[1:] {
			page, err := s.fetch(ctx, query, storeIDs[0], variant)
			if err != nil {
				return nil, err
			}
			debug.VariantsTried = append(debug.VariantsTried, variant)
			debug.RawCount += page.RawCount
			collector.add(page.Listings)
		}

		s.logger.Debug("[Catalog] Query variants tried",
			slog.String("store_id", storeIDs[0]),
			slog.Any("variants", debug.VariantsTried),
			slog.Int("found", collector.len()),
		)
	}

	result := &usecase.ItemsResult{Content: collector.items}
	debug.NormalizedCount = collector.len()
	if query.Debug {
		result.Debug = debug
	}

	return result, nil
}

func (s *catalogService) fetch(ctx context.Context, query usecase.ItemsQuery, storeID, phrase string) (*service.OfferPage, error) {
	offerQuery := service.OfferQuery{
		StoreID:      storeID,
		Query:        phrase,
		LanguageCode: query.LanguageCode,
		Size:         query.Size,
	}

	var (
		page *service.OfferPage
		err  error
	)
	if query.AllPages {
		page, err = s.offers.FetchAllPages(ctx, offerQuery)
	} else {
		page, err = s.offers.FetchOffers(ctx, offerQuery)
	}
	if err != nil {
		return nil, domainerrors.ErrUpstreamUnavailable.WithDetails(err.Error())
	}

	return page, nil
}

// listingCollector keeps raw items in order, de-duplicated by listing id.
// Items without an id are always kept.
type listingCollector struct {
	items []json.RawMessage
	ids   map[string]struct{}
}

func newListingCollector() *listingCollector {
	return &listingCollector{items: []json.RawMessage{}, ids: make(map[string]struct{})}
}

func (c *listingCollector) add(listings []entity.Listing) {
	for _, listing := range listings {
		if listing.ID != "" {
			if _, ok := c.ids[listing.ID]; ok {
				continue
			}
			c.ids[listing.ID] = struct{}{}
		}
		c.items = append(c.items, listing.Raw)
	}
}

func (c *listingCollector) len() int {
	return len(c.items)
}
