package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

const combinedSearchLimit = 5

// SearchHandler serves the search screen.
type SearchHandler struct {
	search  ports.SearchAPI
	urls    urlResolver
	screens *Screens
}

func NewSearchHandler(search ports.SearchAPI, urls urlResolver, screens *Screens) *SearchHandler {
	return &SearchHandler{search: search, urls: urls, screens: screens}
}

type searchData struct {
	Query  string                     `json:"query"`
	Type   string                     `json:"type"`
	All    *domain.SearchResult       `json:"all,omitempty"`
	Images *domain.Page[domain.Image] `json:"images,omitempty"`
	Users  *domain.Page[domain.User]  `json:"users,omitempty"`
}

// Search runs a combined, image-only or user-only search.
//
// @Summary      Search
// @Tags         search
// @Produce      json
// @Param        q         query     string  true   "Query"
// @Param        type      query     string  false  "all, images or users"
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Success      200  {object}  Screen
// @Failure      400  {object}  map[string]string
// @Router       /search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	kind := c.QueryParam("type")
	if kind == "" {
		kind = "all"
	}
	data := searchData{Query: query, Type: kind}
	if query == "" {
		return h.screens.Render(c, http.StatusOK, "search", data)
	}

	ctx := c.Request().Context()
	page := queryInt(c, "page", 1)
	size := queryInt(c, "pageSize", 10)

	switch kind {
	case "all":
		res, err := h.search.Search(ctx, query, queryInt(c, "limit", combinedSearchLimit))
		if err != nil {
			return err
		}
		res.Images = resolveImages(h.urls, res.Images)
		res.Users = resolveUsers(h.urls, res.Users)
		data.All = res
	case "images":
		res, err := h.search.SearchImages(ctx, query, page, size)
		if err != nil {
			return err
		}
		res.Items = resolveImages(h.urls, res.Items)
		data.Images = res
	case "users":
		res, err := h.search.SearchUsers(ctx, query, page, size)
		if err != nil {
			return err
		}
		res.Items = resolveUsers(h.urls, res.Items)
		data.Users = res
	default:
		return domain.NewValidationError("unknown search type %q", kind)
	}
	return h.screens.Render(c, http.StatusOK, "search", data)
}
