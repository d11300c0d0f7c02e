package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

const (
	defaultPageSize  = 20
	popularTagsCount = 10
)

// FeedHandler serves the landing page and the explore feed.
type FeedHandler struct {
	images  ports.ImageAPI
	tags    ports.TagAPI
	screens *Screens
}

func NewFeedHandler(images ports.ImageAPI, tags ports.TagAPI, screens *Screens) *FeedHandler {
	return &FeedHandler{images: images, tags: tags, screens: screens}
}

type homeData struct {
	Latest      []domain.Image `json:"latest"`
	PopularTags []domain.Tag   `json:"popularTags"`
}

type exploreData struct {
	Images   []domain.Image `json:"images"`
	Tag      string         `json:"tag,omitempty"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// Home renders the landing page.
//
// @Summary      Home screen
// @Tags         feed
// @Produce      json
// @Success      200  {object}  Screen
// @Failure      502  {object}  map[string]string
// @Router       / [get]
func (h *FeedHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	latest, err := h.images.ListImages(ctx, domain.ImageQuery{Page: 1, PageSize: defaultPageSize})
	if err != nil {
		return err
	}
	tags, err := h.tags.PopularTags(ctx, popularTagsCount)
	if err != nil {
		return err
	}
	return h.screens.Render(c, http.StatusOK, "home", homeData{
		Latest:      resolveImages(h.images, latest),
		PopularTags: tags,
	})
}

// Explore renders the image feed, optionally filtered by tag.
//
// @Summary      Explore feed
// @Tags         feed
// @Produce      json
// @Param        tag       query     string  false  "Tag name"
// @Param        page      query     int     false  "Page"
// @Param        pageSize  query     int     false  "Page size"
// @Success      200  {object}  Screen
// @Router       /explore [get]
func (h *FeedHandler) Explore(c echo.Context) error {
	q := domain.ImageQuery{
		Tag:      c.QueryParam("tag"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", defaultPageSize),
	}

	var (
		imgs []domain.Image
		err  error
	)
	if q.Tag != "" {
		imgs, err = h.tags.ImagesByTagName(c.Request().Context(), q.Tag)
	} else {
		imgs, err = h.images.ListImages(c.Request().Context(), q)
	}
	if err != nil {
		return err
	}
	return h.screens.Render(c, http.StatusOK, "explore", exploreData{
		Images:   resolveImages(h.images, imgs),
		Tag:      q.Tag,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}
