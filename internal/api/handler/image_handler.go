package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/api/middleware"
	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

const maxUploadBytes = 10 << 20

// ImageAPIs groups the backend APIs the image screens need.
type ImageAPIs struct {
	Images   ports.ImageAPI
	Comments ports.CommentAPI
	Tags     ports.TagAPI
	Likes    ports.LikeAPI
	Saved    ports.SavedAPI
	Reports  ports.ReportAPI
}

// ImageHandler serves image detail, upload, comments and image toggles.
type ImageHandler struct {
	api          ImageAPIs
	interactions ports.InteractionService
	screens      *Screens
}

func NewImageHandler(api ImageAPIs, interactions ports.InteractionService, screens *Screens) *ImageHandler {
	return &ImageHandler{api: api, interactions: interactions, screens: screens}
}

type imageDetail struct {
	Image    domain.Image       `json:"image"`
	Comments []domain.Comment   `json:"comments"`
	Tags     []domain.Tag       `json:"tags"`
	State    *ports.ToggleState `json:"state,omitempty"`
	IsOwner  bool               `json:"isOwner"`
}

type commentRequest struct {
	Content         string `json:"content" validate:"required,max=1000"`
	ParentCommentID *int64 `json:"parentCommentId"`
}

type reportRequest struct {
	Reason      string `json:"reason" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

// Detail renders one image with its comments and tags. For a logged-in
// viewer the like and save state is fetched and seeded for later toggles.
//
// @Summary      Image detail
// @Tags         images
// @Produce      json
// @Param        id   path      int  true  "Image ID"
// @Success      200  {object}  Screen
// @Failure      404  {object}  map[string]string
// @Router       /images/{id} [get]
func (h *ImageHandler) Detail(c echo.Context) error {
	imageID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	img, err := h.api.Images.GetImage(ctx, imageID)
	if err != nil {
		return err
	}
	comments, err := h.api.Comments.CommentsForImage(ctx, imageID)
	if err != nil {
		return err
	}
	tags, err := h.api.Tags.TagsForImage(ctx, imageID)
	if err != nil {
		return err
	}

	data := imageDetail{
		Image:    resolveImage(h.api.Images, *img),
		Comments: resolveComments(h.api.Images, comments),
		Tags:     tags,
	}

	store := middleware.Store(c)
	if store != nil {
		if user := store.Snapshot().User; user != nil {
			liked, err := h.api.Likes.ImageLiked(ctx, imageID)
			if err != nil {
				return err
			}
			saved, err := h.api.Saved.ImageSaved(ctx, imageID)
			if err != nil {
				return err
			}
			h.interactions.SeedImage(store.Key(), imageID, liked, saved, img.LikesCount)
			for _, cm := range comments {
				h.interactions.SeedComment(store.Key(), cm.ID, cm.IsLikedByCurrentUser, cm.LikesCount)
			}
			state := h.interactions.State(store.Key())
			data.State = &state
			data.IsOwner = user.ID == img.UserID
		}
	}
	return h.screens.Render(c, http.StatusOK, "image", data)
}

// UploadForm renders the upload screen with the popular tags as suggestions.
//
// @Summary      Upload screen
// @Tags         images
// @Produce      json
// @Success      200  {object}  Screen
// @Router       /upload [get]
func (h *ImageHandler) UploadForm(c echo.Context) error {
	tags, err := h.api.Tags.PopularTags(c.Request().Context(), popularTagsCount)
	if err != nil {
		return err
	}
	return h.screens.Render(c, http.StatusOK, "upload", map[string]any{"suggestedTags": tags})
}

// Upload forwards a multipart image upload to the backend.
//
// @Summary      Upload image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Image file"
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  false  "Description"
// @Param        tags         formData  string  false  "Comma separated tags"
// @Success      201  {object}  domain.Image
// @Failure      400  {object}  map[string]string
// @Router       /upload [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file is required")
	}
	if fh.Size > maxUploadBytes {
		return domain.NewValidationError("file must be at most %d MB", maxUploadBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return err
	}

	upload := domain.ImageUpload{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Tags:        splitTags(c.FormValue("tags")),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     content,
	}
	if err := c.Validate(&upload); err != nil {
		return err
	}
	if !strings.HasPrefix(http.DetectContentType(content), "image/") {
		return domain.NewValidationError("file must be an image")
	}

	img, err := h.api.Images.CreateImage(c.Request().Context(), upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resolveImage(h.api.Images, *img))
}

// Update edits the title and description of an image.
//
// @Summary      Update image
// @Tags         images
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Image ID"
// @Param        body  body      domain.ImageEdit  true  "Changes"
// @Success      200   {object}  domain.Image
// @Router       /images/{id} [put]
func (h *ImageHandler) Update(c echo.Context) error {
	imageID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var edit domain.ImageEdit
	if err := bind(c, &edit); err != nil {
		return err
	}
	img, err := h.api.Images.UpdateImage(c.Request().Context(), imageID, edit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolveImage(h.api.Images, *img))
}

// Delete removes an image.
//
// @Summary      Delete image
// @Tags         images
// @Param        id   path  int  true  "Image ID"
// @Success      204
// @Router       /images/{id} [delete]
func (h *ImageHandler) Delete(c echo.Context) error {
	imageID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.api.Images.DeleteImage(c.Request().Context(), imageID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes an image optimistically.
//
// @Summary      Toggle image like
// @Tags         interactions
// @Produce      json
// @Param        id   path      int  true  "Image ID"
// @Success      200  {object}  ports.ToggleState
// @Router       /images/{id}/like [post]
func (h *ImageHandler) ToggleLike(c echo.Context) error {
	return toggle(c, "id", h.interactions.ToggleImageLike)
}

// ToggleSave saves or unsaves an image optimistically.
//
// @Summary      Toggle image save
// @Tags         interactions
// @Produce      json
// @Param        id   path      int  true  "Image ID"
// @Success      200  {object}  ports.ToggleState
// @Router       /images/{id}/save [post]
func (h *ImageHandler) ToggleSave(c echo.Context) error {
	return toggle(c, "id", h.interactions.ToggleSave)
}

// ToggleCommentLike likes or unlikes a comment optimistically.
//
// @Summary      Toggle comment like
// @Tags         interactions
// @Produce      json
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  ports.ToggleState
// @Router       /comments/{id}/like [post]
func (h *ImageHandler) ToggleCommentLike(c echo.Context) error {
	return toggle(c, "id", h.interactions.ToggleCommentLike)
}

// CreateComment posts a comment or, with parentCommentId, a reply.
//
// @Summary      Comment on image
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Image ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Router       /images/{id}/comments [post]
func (h *ImageHandler) CreateComment(c echo.Context) error {
	imageID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cm, err := h.api.Comments.CreateComment(c.Request().Context(), domain.NewComment{
		ImageID:         imageID,
		Content:         strings.TrimSpace(req.Content),
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

// Replies lists the replies of a comment.
//
// @Summary      Comment replies
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {array}   domain.Comment
// @Router       /comments/{id}/replies [get]
func (h *ImageHandler) Replies(c echo.Context) error {
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	replies, err := h.api.Comments.Replies(c.Request().Context(), commentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolveComments(h.api.Images, replies))
}

// UpdateComment edits a comment.
//
// @Summary      Edit comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Comment ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      200   {object}  domain.Comment
// @Router       /comments/{id} [put]
func (h *ImageHandler) UpdateComment(c echo.Context) error {
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cm, err := h.api.Comments.UpdateComment(c.Request().Context(), commentID, strings.TrimSpace(req.Content))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cm)
}

// DeleteComment removes a comment.
//
// @Summary      Delete comment
// @Tags         comments
// @Param        id   path  int  true  "Comment ID"
// @Success      204
// @Router       /comments/{id} [delete]
func (h *ImageHandler) DeleteComment(c echo.Context) error {
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.api.Comments.DeleteComment(c.Request().Context(), commentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Report flags an image for moderation.
//
// @Summary      Report image
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Image ID"
// @Param        body  body      reportRequest  true  "Report"
// @Success      201   {object}  domain.Report
// @Failure      409   {object}  map[string]string
// @Router       /images/{id}/report [post]
func (h *ImageHandler) Report(c echo.Context) error {
	imageID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reportRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	report, err := h.api.Reports.CreateReport(c.Request().Context(), domain.NewReport{
		ImageID:     imageID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && be.Status == http.StatusBadRequest {
			return &domain.BackendError{Status: http.StatusConflict, Message: be.Message}
		}
		return err
	}
	return c.JSON(http.StatusCreated, report)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
