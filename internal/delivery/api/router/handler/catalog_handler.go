package handler

import (
	"net/http"
	"strconv"

	"alerts/internal/delivery/api/response"
	"alerts/internal/domain/entity"
	"alerts/internal/domain/search"
	"alerts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CatalogHandler proxies catalog searches for the web client
type CatalogHandler struct {
	catalog usecase.CatalogUsecase
}

func NewCatalogHandler(catalog usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type storesResponse struct {
	Stores []entity.Store `json:"stores"`
}

// Items searches GET /api/items?storeIds=&query=&languageCode=&size=&allPages=&debug=
func (h *CatalogHandler) Items(c echo.Context) error {
	size, _ := strconv.Atoi(c.QueryParam("size"))

	result, err := h.catalog.SearchItems(c.Request().Context(), usecase.ItemsQuery{
		StoreIDs:     search.ParseStoreIDList(c.QueryParam("storeIds")),
		Query:        c.QueryParam("query"),
		LanguageCode: c.QueryParam("languageCode"),
		Size:         size,
		AllPages:     queryFlag(c.QueryParam("allPages")),
		Debug:        queryFlag(c.QueryParam("debug")),
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, result)
}

func (h *CatalogHandler) Stores(c echo.Context) error {
	return response.JSON(c, http.StatusOK, storesResponse{Stores: h.catalog.Stores()})
}
