package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/snapboard/webclient/internal/core/domain"
)

// Reports lists reports, optionally filtered by status.
func (c *Client) Reports(ctx context.Context, status domain.ReportStatus) ([]domain.Report, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	return c.reports(ctx, "/Reports", q)
}

func (c *Client) GetReport(ctx context.Context, reportID int64) (*domain.Report, error) {
	var r domain.Report
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Reports/" + id(reportID)}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ReportsForImage(ctx context.Context, imageID int64) ([]domain.Report, error) {
	return c.reports(ctx, "/Reports/image/"+id(imageID), nil)
}

func (c *Client) MyReports(ctx context.Context) ([]domain.Report, error) {
	return c.reports(ctx, "/Reports/my-reports", nil)
}

func (c *Client) CreateReport(ctx context.Context, nr domain.NewReport) (*domain.Report, error) {
	var r domain.Report
	if err := c.do(ctx, request{method: http.MethodPost, path: "/Reports", body: nr}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ResolveReport(ctx context.Context, reportID int64, res domain.Resolution) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/Reports/" + id(reportID) + "/resolve", body: res}, nil)
}

func (c *Client) PendingReportsCount(ctx context.Context) (int, error) {
	var n count
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Reports/pending-count"}, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c *Client) reports(ctx context.Context, path string, q url.Values) ([]domain.Report, error) {
	var out list[domain.Report]
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
