package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"shion/internal/config"

	"github.com/valyala/fasthttp"
)

// IPAPIClient resolves client addresses to a country through ip-api.com.
type IPAPIClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewIPAPIClient(cfg *config.Config) *IPAPIClient {
	return &IPAPIClient{
		baseURL: strings.TrimRight(cfg.IPAPIURL, "/"),
		client:  newHTTPClient(),
	}
}

type IPInfoResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	CountryCode string  `json:"countryCode"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

func (c *IPAPIClient) GetIPInfo(ctx context.Context, ip string) (*IPInfoResponse, error) {
	u := fmt.Sprintf("%s/json/%s?fields=status,message,countryCode,lat,lon", c.baseURL, url.PathEscape(ip))

	resp, err := doRequest[IPInfoResponse](ctx, c.client, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ip info: %w", err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("ip lookup for %s failed: %s", ip, resp.Message)
	}
	return resp, nil
}
