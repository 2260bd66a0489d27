package client

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/api"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpclient"
)

type AnalyticsServiceClient interface {
	GetHiringMetrics(ctx *httpclient.Context, jobID, startDate, endDate string) (*api.HiringMetricsResponse, error)
	GetNudges(ctx *httpclient.Context) (*api.NudgesResponse, error)
	GetJobHealth(ctx *httpclient.Context, jobID string) (*api.JobHealthSummary, error)
}

type analyticsClient struct {
	baseURL string
}

func NewAnalyticsServiceClient(baseURL string) AnalyticsServiceClient {
	return &analyticsClient{baseURL: baseURL}
}

func (c *analyticsClient) GetHiringMetrics(ctx *httpclient.Context, jobID, startDate, endDate string) (*api.HiringMetricsResponse, error) {
	query := url.Values{}
	if jobID != "" {
		query.Set("jobId", jobID)
	}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}

	u := fmt.Sprintf("%s/api/v1/analytics/hiring-metrics", c.baseURL)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var response api.HiringMetricsResponse
	if err := httpclient.DoRequest(http.MethodGet, u, ctx.ToHeaders(), nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *analyticsClient) GetNudges(ctx *httpclient.Context) (*api.NudgesResponse, error) {
	u := fmt.Sprintf("%s/api/v1/analytics/nudges", c.baseURL)

	var response api.NudgesResponse
	if err := httpclient.DoRequest(http.MethodGet, u, ctx.ToHeaders(), nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *analyticsClient) GetJobHealth(ctx *httpclient.Context, jobID string) (*api.JobHealthSummary, error) {
	u := fmt.Sprintf("%s/api/v1/analytics/jobs/%s/health", c.baseURL, jobID)

	var response api.JobHealthSummary
	if err := httpclient.DoRequest(http.MethodGet, u, ctx.ToHeaders(), nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
