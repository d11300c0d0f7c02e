package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

func detailBackend(liked, saved bool) *stubBackend {
	return &stubBackend{
		getImageFn: func(_ context.Context, id int64) (*domain.Image, error) {
			return &domain.Image{ID: id, Title: "sunset", ImageURL: "uploads/1.jpg", UserID: 7, LikesCount: 4}, nil
		},
		commentsFn: func(context.Context, int64) ([]domain.Comment, error) {
			return []domain.Comment{{ID: 10, Content: "nice"}}, nil
		},
		tagsForImageFn: func(context.Context, int64) ([]domain.Tag, error) {
			return []domain.Tag{{ID: 1, Name: "sky"}}, nil
		},
		imageLikedFn: func(context.Context, int64) (bool, error) { return liked, nil },
		imageSavedFn: func(context.Context, int64) (bool, error) { return saved, nil },
	}
}

func newImageHandler(b *stubBackend, in *stubInteractions) *ImageHandler {
	api := ImageAPIs{Images: b, Comments: b, Tags: b, Likes: b, Saved: b, Reports: b}
	return NewImageHandler(api, in, NewScreens(nil))
}

func TestImageHandler_Detail_SeedsForViewer(t *testing.T) {
	in := &stubInteractions{}
	h := newImageHandler(detailBackend(true, false), in)

	c, rec := newContext(http.MethodGet, "/images/5", nil, loggedIn(domain.RoleUser))
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.Detail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(in.seeds) != 1 || in.seeds[0] != (seedCall{key: "key-1", id: 5, liked: true}) {
		t.Fatalf("unexpected seeds: %+v", in.seeds)
	}

	var screen struct {
		Screen string `json:"screen"`
		Data   struct {
			Image   domain.Image `json:"image"`
			IsOwner bool         `json:"isOwner"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &screen); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if screen.Screen != "image" || !screen.Data.IsOwner {
		t.Fatalf("unexpected screen: %+v", screen)
	}
	if screen.Data.Image.ImageURL != "https://assets.example/uploads/1.jpg" {
		t.Fatalf("image url not resolved: %q", screen.Data.Image.ImageURL)
	}
}

func TestImageHandler_Detail_AnonymousSkipsInteractionState(t *testing.T) {
	b := detailBackend(false, false)
	b.imageLikedFn = func(context.Context, int64) (bool, error) {
		t.Fatal("like state should not be fetched for visitors")
		return false, nil
	}
	in := &stubInteractions{}
	h := newImageHandler(b, in)

	c, rec := newContext(http.MethodGet, "/images/5", nil, &stubStore{key: "anon"})
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.Detail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || len(in.seeds) != 0 {
		t.Fatalf("expected plain render, got %d with %d seeds", rec.Code, len(in.seeds))
	}
}

func TestImageHandler_Detail_InvalidID(t *testing.T) {
	h := newImageHandler(&stubBackend{}, &stubInteractions{})
	c, _ := newContext(http.MethodGet, "/images/abc", nil, &stubStore{key: "anon"})
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Detail(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImageHandler_ToggleLike_UsesSessionKey(t *testing.T) {
	in := &stubInteractions{toggleFn: func(_ context.Context, _ string, id int64) (ports.ToggleState, error) {
		return ports.ToggleState{Liked: map[int64]bool{id: true}}, nil
	}}
	h := newImageHandler(&stubBackend{}, in)

	c, rec := newContext(http.MethodPost, "/images/9/like", nil, loggedIn(domain.RoleUser))
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.ToggleLike(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(in.toggled) != 1 || in.toggled[0].key != "key-1" || in.toggled[0].id != 9 {
		t.Fatalf("unexpected toggles: %+v", in.toggled)
	}
	var state ports.ToggleState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !state.Liked[9] {
		t.Fatalf("expected liked state, got %+v", state)
	}
}

func TestImageHandler_ToggleSave_ReturnsBackendError(t *testing.T) {
	in := &stubInteractions{toggleFn: func(context.Context, string, int64) (ports.ToggleState, error) {
		return ports.ToggleState{}, &domain.BackendError{Status: http.StatusInternalServerError, Message: "boom"}
	}}
	h := newImageHandler(&stubBackend{}, in)

	c, _ := newContext(http.MethodPost, "/images/9/save", nil, loggedIn(domain.RoleUser))
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.ToggleSave(c); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func multipartRequest(t *testing.T, fields map[string]string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := w.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	_, _ = part.Write(content)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestImageHandler_Upload(t *testing.T) {
	var got domain.ImageUpload
	b := &stubBackend{createImageFn: func(_ context.Context, up domain.ImageUpload) (*domain.Image, error) {
		got = up
		return &domain.Image{ID: 12, Title: up.Title, ImageURL: "uploads/12.png"}, nil
	}}
	h := newImageHandler(b, &stubInteractions{})

	body, ct := multipartRequest(t, map[string]string{"title": " Sunset ", "tags": "sky, sea,,"}, pngHeader)
	c, rec := newContext(http.MethodPost, "/upload", body, loggedIn(domain.RoleUser))
	c.Request().Header.Set(echo.HeaderContentType, ct)

	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Title != "Sunset" || strings.Join(got.Tags, "|") != "sky|sea" || got.FileName != "photo.png" {
		t.Fatalf("unexpected upload: %+v", got)
	}
}

func TestImageHandler_Upload_RejectsNonImage(t *testing.T) {
	b := &stubBackend{createImageFn: func(context.Context, domain.ImageUpload) (*domain.Image, error) {
		t.Fatal("backend should not be called")
		return nil, nil
	}}
	h := newImageHandler(b, &stubInteractions{})

	body, ct := multipartRequest(t, map[string]string{"title": "notes"}, []byte("just some text"))
	c, _ := newContext(http.MethodPost, "/upload", body, loggedIn(domain.RoleUser))
	c.Request().Header.Set(echo.HeaderContentType, ct)

	if err := h.Upload(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImageHandler_Report_DuplicateIsConflict(t *testing.T) {
	b := &stubBackend{createReportFn: func(context.Context, domain.NewReport) (*domain.Report, error) {
		return nil, &domain.BackendError{Status: http.StatusBadRequest, Message: "You have already reported this image"}
	}}
	h := newImageHandler(b, &stubInteractions{})

	c, _ := newContext(http.MethodPost, "/images/3/report", strings.NewReader(`{"reason":"spam"}`), loggedIn(domain.RoleUser))
	c.SetParamNames("id")
	c.SetParamValues("3")
	var be *domain.BackendError
	if err := h.Report(c); !errors.As(err, &be) || be.Status != http.StatusConflict {
		t.Fatalf("expected 409 backend error, got %v", err)
	}
}
