package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/snapboard/webclient/internal/core/domain"
)

// ListImages tolerates both a bare array and an {items|images} envelope.
func (c *Client) ListImages(ctx context.Context, q domain.ImageQuery) ([]domain.Image, error) {
	params := url.Values{}
	if q.UserID > 0 {
		params.Set("userId", id(q.UserID))
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	var out list[domain.Image]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Images", query: params}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return []domain.Image{}, nil
	}
	return out, nil
}

func (c *Client) GetImage(ctx context.Context, imageID int64) (*domain.Image, error) {
	var img domain.Image
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Images/" + id(imageID)}, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// CreateImage uploads the file and its metadata as multipart/form-data.
func (c *Client) CreateImage(ctx context.Context, upload domain.ImageUpload) (*domain.Image, error) {
	body, err := encodeUpload(upload)
	if err != nil {
		return nil, err
	}
	var img domain.Image
	if err := c.do(ctx, request{method: http.MethodPost, path: "/Images", multipart: body}, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *Client) UpdateImage(ctx context.Context, imageID int64, edit domain.ImageEdit) (*domain.Image, error) {
	var img domain.Image
	if err := c.do(ctx, request{method: http.MethodPut, path: "/Images/" + id(imageID), body: edit}, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *Client) DeleteImage(ctx context.Context, imageID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/Images/" + id(imageID)}, nil)
}

func encodeUpload(upload domain.ImageUpload) (*multipartBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", upload.Title},
		{"description", upload.Description},
	}
	for _, tag := range upload.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			fields = append(fields, [2]string{"tags", tag})
		}
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("encode upload field %s: %w", f[0], err)
		}
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(upload.Content)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.FileName))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("encode upload file: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, fmt.Errorf("encode upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}
	return &multipartBody{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}
