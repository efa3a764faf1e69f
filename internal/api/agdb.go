package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"shion/internal/config"

	"github.com/valyala/fasthttp"
)

var (
	ErrAGDBInvalidSteamID = errors.New("steam id rejected by AGDB")
	ErrAGDBPlayerNotFound = errors.New("player not found in AGDB")
)

type AGDBClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewAGDBClient(cfg *config.Config) *AGDBClient {
	return &AGDBClient{
		baseURL: strings.TrimRight(cfg.AGDBAPIURL, "/"),
		client:  newHTTPClient(),
	}
}

type AGDBPlayer struct {
	SteamName string `json:"steamName"`
	SteamID   string `json:"steamID"`
	SteamURL  string `json:"steamUrl"`
	Country   string `json:"country"`
}

func (c *AGDBClient) GetPlayer(ctx context.Context, steamID string) (*AGDBPlayer, error) {
	u := fmt.Sprintf("%s/players/%s", c.baseURL, url.PathEscape(steamID))

	player, err := doRequest[AGDBPlayer](ctx, c.client, u)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case fasthttp.StatusBadRequest:
			return nil, ErrAGDBInvalidSteamID
		case fasthttp.StatusNotFound:
			return nil, ErrAGDBPlayerNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch AGDB player %s: %w", steamID, err)
	}
	return player, nil
}
