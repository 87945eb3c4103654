package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/service"
	"alerts/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogServer struct {
	*httptest.Server

	mu      sync.Mutex
	queries []url.Values
}

func (s *catalogServer) calls() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]url.Values(nil), s.queries...)
}

// newCatalogServer answers every search with respond(query).
func newCatalogServer(t *testing.T, respond func(q url.Values) (int, any)) *catalogServer {
	t.Helper()

	cs := &catalogServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != searchPath {
			http.NotFound(w, r)
			return
		}

		cs.mu.Lock()
		cs.queries = append(cs.queries, r.URL.Query())
		cs.mu.Unlock()

		status, body := respond(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if raw, ok := body.(string); ok {
			_, _ = w.Write([]byte(raw))
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(cs.Close)

	return cs
}

func offer(id, title string) map[string]any {
	return map[string]any{
		"title":  title,
		"offers": []any{map[string]any{"id": id}},
	}
}

func TestClient_FetchOffers_BuildsRequestAndNormalizes(t *testing.T) {
	server := newCatalogServer(t, func(url.Values) (int, any) {
		return http.StatusOK, map[string]any{
			"totalPages": 1,
			"content":    []any{offer("o-1", "BILLY bookcase"), map[string]any{"name": "no id"}},
		}
	})
	client := NewClient(Options{BaseURL: server.URL + "/", LanguageCode: "pl", PageSize: 32})

	page, err := client.FetchOffers(context.Background(), service.OfferQuery{StoreID: "294", Query: "billy"})
	require.NoError(t, err)

	require.Len(t, server.calls(), 1)
	q := server.calls()[0]
	assert.Equal(t, "pl", q.Get("languageCode"))
	assert.Equal(t, "32", q.Get("size"))
	assert.Equal(t, "294", q.Get("storeIds"))
	assert.Equal(t, "0", q.Get("page"))
	assert.Equal(t, "billy", q.Get("query"))

	assert.Equal(t, 2, page.RawCount)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Listings, 2)
	assert.Equal(t, "o-1", page.Listings[0].ID)
	assert.Equal(t, "294", page.Listings[0].StoreID)
	assert.Equal(t, "BILLY bookcase", page.Listings[0].Title)
	assert.Empty(t, page.Listings[1].ID)
	assert.Equal(t, "no id", page.Listings[1].Title)
}

func TestClient_FetchOffers_OmitsEmptyQuery(t *testing.T) {
	server := newCatalogServer(t, func(url.Values) (int, any) {
		return http.StatusOK, map[string]any{"content": []any{}}
	})
	client := NewClient(Options{BaseURL: server.URL})

	_, err := client.FetchOffers(context.Background(), service.OfferQuery{StoreID: "203", Size: 10})
	require.NoError(t, err)

	q := server.calls()[0]
	assert.False(t, q.Has("query"))
	assert.Equal(t, "10", q.Get("size"))
	assert.Equal(t, defaultLanguageCode, q.Get("languageCode"))
}

func TestClient_FetchOffers_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       any
		wantStatus int
	}{
		{name: "server error", status: http.StatusBadGateway, body: "{}", wantStatus: http.StatusBadGateway},
		{name: "not found", status: http.StatusNotFound, body: "{}", wantStatus: http.StatusNotFound},
		{name: "malformed json", status: http.StatusOK, body: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newCatalogServer(t, func(url.Values) (int, any) { return tt.status, tt.body })
			client := NewClient(Options{BaseURL: server.URL})

			_, err := client.FetchOffers(context.Background(), service.OfferQuery{StoreID: "294", Page: 3})

			var upstreamErr *domainerrors.UpstreamError
			require.True(t, errors.As(err, &upstreamErr), "want UpstreamError, got %v", err)
			assert.Equal(t, "294", upstreamErr.StoreID)
			assert.Equal(t, 3, upstreamErr.Page)
			assert.Equal(t, tt.wantStatus, upstreamErr.StatusCode)
		})
	}
}

func TestClient_FetchAllPages_MergesUpToCap(t *testing.T) {
	server := newCatalogServer(t, func(q url.Values) (int, any) {
		page, _ := strconv.Atoi(q.Get("page"))

		return http.StatusOK, map[string]any{
			"totalPages": 50,
			"content":    []any{offer(fmt.Sprintf("p%d", page), "item")},
		}
	})
	client := NewClient(Options{BaseURL: server.URL, MaxPages: 3})

	merged, err := client.FetchAllPages(context.Background(), service.OfferQuery{StoreID: "294"})
	require.NoError(t, err)

	assert.Len(t, server.calls(), 3)
	assert.Equal(t, 3, merged.PagesFetched)
	assert.Equal(t, 3, merged.RawCount)
	require.Len(t, merged.Listings, 3)
	assert.Equal(t, []string{"p0", "p1", "p2"}, []string{merged.Listings[0].ID, merged.Listings[1].ID, merged.Listings[2].ID})
}

func TestClient_FetchAllPages_SinglePage(t *testing.T) {
	server := newCatalogServer(t, func(url.Values) (int, any) {
		return http.StatusOK, map[string]any{"content": []any{offer("a", "x")}}
	})
	client := NewClient(Options{BaseURL: server.URL})

	merged, err := client.FetchAllPages(context.Background(), service.OfferQuery{StoreID: "294", Page: 7})
	require.NoError(t, err)

	assert.Len(t, server.calls(), 1)
	assert.Equal(t, "0", server.calls()[0].Get("page"))
	assert.Len(t, merged.Listings, 1)
}

func TestClient_FetchAllPages_AbortsOnFailingPage(t *testing.T) {
	server := newCatalogServer(t, func(q url.Values) (int, any) {
		if q.Get("page") == "1" {
			return http.StatusInternalServerError, "{}"
		}

		return http.StatusOK, map[string]any{"totalPages": 3, "content": []any{offer("a", "x")}}
	})
	client := NewClient(Options{BaseURL: server.URL})

	merged, err := client.FetchAllPages(context.Background(), service.OfferQuery{StoreID: "294"})
	require.Error(t, err)
	assert.Nil(t, merged)

	var upstreamErr *domainerrors.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, 1, upstreamErr.Page)
	assert.Len(t, server.calls(), 2)
}

func TestClient_FetchOffers_RespectsContextCancellation(t *testing.T) {
	server := newCatalogServer(t, func(url.Values) (int, any) {
		return http.StatusOK, map[string]any{}
	})
	client := NewClient(Options{BaseURL: server.URL, RateLimit: 1, Burst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchOffers(ctx, service.OfferQuery{StoreID: "294"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
