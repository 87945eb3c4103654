// Package catalog fetches second-hand offers from the grouped offer search API.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"alerts/config"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/service"
	"alerts/internal/errors"

	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

const (
	searchPath          = "/offers/grouped/search"
	defaultLanguageCode = "pl"
	defaultPageSize     = 32
	defaultMaxPages     = 20
	defaultTimeout      = 15 * time.Second
	maxResponseBody     = 8 << 20
)

// Client is a rate limited OfferSource over HTTP.
type Client struct {
	baseURL      string
	languageCode string
	pageSize     int
	maxPages     int
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// Options configures NewClient. Zero values fall back to the upstream defaults.
type Options struct {
	BaseURL      string
	LanguageCode string
	PageSize     int
	MaxPages     int
	Timeout      time.Duration
	RateLimit    float64
	Burst        int
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		languageCode: firstNonEmpty(opts.LanguageCode, defaultLanguageCode),
		pageSize:     positiveOr(opts.PageSize, defaultPageSize),
		maxPages:     positiveOr(opts.MaxPages, defaultMaxPages),
		httpClient:   httpClient,
		limiter:      limiter,
		logger:       logger,
	}
}

// Params holds dependencies for the catalog client, injected by Fx.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New builds the catalog OfferSource from configuration.
func New(params Params) service.OfferSource {
	cfg := params.Config.Catalog

	return NewClient(Options{
		BaseURL:      cfg.BaseURL,
		LanguageCode: cfg.LanguageCode,
		PageSize:     cfg.PageSize,
		MaxPages:     cfg.MaxPages,
		Timeout:      cfg.Timeout,
		RateLimit:    cfg.RateLimit,
		Burst:        cfg.Burst,
		Logger:       params.Logger,
	})
}

// FetchOffers fetches and normalizes one page of a store's offers.
func (c *Client) FetchOffers(ctx context.Context, query service.OfferQuery) (*service.OfferPage, error) {
	query = c.withDefaults(query)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domainerrors.UpstreamError{StoreID: query.StoreID, Page: query.Page, Err: errors.Wrap(err, "rate limiter")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, &domainerrors.UpstreamError{StoreID: query.StoreID, Page: query.Page, Err: errors.WithStack(err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domainerrors.UpstreamError{StoreID: query.StoreID, Page: query.Page, Err: errors.WithStack(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))

		return nil, &domainerrors.UpstreamError{StoreID: query.StoreID, Page: query.Page, StatusCode: resp.StatusCode}
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&fields); err != nil {
		return nil, &domainerrors.UpstreamError{StoreID: query.StoreID, Page: query.Page, Err: errors.Wrap(err, "decode search response")}
	}

	items, shape := extractItems(fields)
	page := &service.OfferPage{
		RawCount:     len(items),
		TotalPages:   totalPages(fields),
		PagesFetched: 1,
	}
	for _, item := range items {
		page.Listings = append(page.Listings, normalizeItem(item, query.StoreID))
	}

	c.logger.Debug("[Catalog] Page fetched",
		slog.String("store_id", query.StoreID),
		slog.Int("page", query.Page),
		slog.String("shape", shape),
		slog.Int("items", len(items)),
	)

	return page, nil
}

// FetchAllPages follows totalPages from the first page, capped at the configured maximum.
// A failure on any page fails the whole fetch.
func (c *Client) FetchAllPages(ctx context.Context, query service.OfferQuery) (*service.OfferPage, error) {
	query.Page = 0
	first, err := c.FetchOffers(ctx, query)
	if err != nil {
		return nil, err
	}

	total := min(first.TotalPages, c.maxPages)
	if total <= 1 {
		return first, nil
	}

	merged := &service.OfferPage{
		Listings:     append([]entity.Listing(nil), first.Listings...),
		RawCount:     first.RawCount,
		TotalPages:   first.TotalPages,
		PagesFetched: 1,
	}

	for page := 1; page < total; page++ {
		query.Page = page
		next, err := c.FetchOffers(ctx, query)
		if err != nil {
			return nil, err
		}
		merged.Listings = append(merged.Listings, next.Listings...)
		merged.RawCount += next.RawCount
		merged.PagesFetched++
	}

	return merged, nil
}

func (c *Client) withDefaults(query service.OfferQuery) service.OfferQuery {
	if query.LanguageCode == "" {
		query.LanguageCode = c.languageCode
	}
	if query.Size <= 0 {
		query.Size = c.pageSize
	}
	if query.Page < 0 {
		query.Page = 0
	}

	return query
}

func (c *Client) searchURL(query service.OfferQuery) string {
	params := url.Values{}
	params.Set("languageCode", query.LanguageCode)
	params.Set("size", strconv.Itoa(query.Size))
	params.Set("storeIds", query.StoreID)
	params.Set("page", strconv.Itoa(query.Page))
	if query.Query != "" {
		params.Set("query", query.Query)
	}

	return c.baseURL + searchPath + "?" + params.Encode()
}

func totalPages(fields map[string]json.RawMessage) int {
	var total json.Number
	if err := json.Unmarshal(fields["totalPages"], &total); err != nil {
		return 0
	}

	n, err := total.Float64()
	if err != nil || n < 0 {
		return 0
	}

	return int(n)
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}

	return fallback
}
