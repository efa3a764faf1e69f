package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"shion/internal/config"

	"github.com/valyala/fasthttp"
)

type SteamClient struct {
	apiKey  string
	baseURL string
	client  *fasthttp.Client
}

func NewSteamClient(cfg *config.Config) *SteamClient {
	return &SteamClient{
		apiKey:  cfg.SteamAPIKey,
		baseURL: strings.TrimRight(cfg.SteamAPIURL, "/"),
		client:  newHTTPClient(),
	}
}

type PlayerSummariesResponse struct {
	Response struct {
		Players []SteamPlayer `json:"players"`
	} `json:"response"`
}

type SteamPlayer struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	ProfileURL  string `json:"profileurl"`
	Avatar      string `json:"avatar"`
	AvatarFull  string `json:"avatarfull"`
}

// GetPlayerSummary returns nil without an error when Steam knows no such account.
func (c *SteamClient) GetPlayerSummary(ctx context.Context, steamID64 uint64) (*SteamPlayer, error) {
	u := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%d",
		c.baseURL, url.QueryEscape(c.apiKey), steamID64)

	resp, err := doRequest[PlayerSummariesResponse](ctx, c.client, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch steam player summary: %w", err)
	}
	if len(resp.Response.Players) == 0 {
		return nil, nil
	}
	return &resp.Response.Players[0], nil
}
