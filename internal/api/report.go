package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// ReportClient posts run reports to REPORT_WEBHOOK_URL. With no URL
// configured Send is a no-op.
type ReportClient struct {
	url    string
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewReportClient(cfg *config.Config, logger zerolog.Logger) *ReportClient {
	return &ReportClient{
		url: cfg.ReportWebhookURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger.With().Str("component", "report").Logger(),
	}
}

func (c *ReportClient) Send(ctx context.Context, report scheduler.RunReport) error {
	if c.url == "" {
		return nil
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("failed to post run report: %w", err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("report webhook error: %d", code)
	}

	c.logger.Debug().Str("run_id", report.RunID).Str("status", report.Status).Msg("run report sent")
	return nil
}
