package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shion/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSteamGetPlayerSummary(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ISteamUser/GetPlayerSummaries/v0002/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("expected api key, got %q", got)
		}
		if got := r.URL.Query().Get("steamids"); got != "76561197960265733" {
			t.Errorf("unexpected steamids %q", got)
		}
		w.Write([]byte(`{"response":{"players":[{"steamid":"76561197960265733","personaname":"bumblebee","avatarfull":"https://avatars/full.jpg"}]}}`))
	})

	client := NewSteamClient(&config.Config{SteamAPIKey: "secret", SteamAPIURL: srv.URL + "/"})
	player, err := client.GetPlayerSummary(testContext(t), 76561197960265733)
	if err != nil {
		t.Fatalf("GetPlayerSummary: %v", err)
	}
	if player == nil || player.PersonaName != "bumblebee" || player.AvatarFull != "https://avatars/full.jpg" {
		t.Errorf("unexpected player %+v", player)
	}
}

func TestSteamGetPlayerSummaryUnknownAccount(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"players":[]}}`))
	})

	client := NewSteamClient(&config.Config{SteamAPIURL: srv.URL})
	player, err := client.GetPlayerSummary(testContext(t), 1)
	if err != nil {
		t.Fatalf("GetPlayerSummary: %v", err)
	}
	if player != nil {
		t.Errorf("expected nil player, got %+v", player)
	}
}

func TestIPAPIGetIPInfo(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json/200.1.1.1":
			w.Write([]byte(`{"status":"success","countryCode":"AR","lat":-34.6,"lon":-58.4}`))
		default:
			w.Write([]byte(`{"status":"fail","message":"private range"}`))
		}
	})

	client := NewIPAPIClient(&config.Config{IPAPIURL: srv.URL})
	info, err := client.GetIPInfo(testContext(t), "200.1.1.1")
	if err != nil {
		t.Fatalf("GetIPInfo: %v", err)
	}
	if info.CountryCode != "AR" {
		t.Errorf("expected AR, got %q", info.CountryCode)
	}

	if _, err := client.GetIPInfo(testContext(t), "10.0.0.1"); err == nil {
		t.Error("expected an error for a failed lookup")
	}
}

func TestAGDBGetPlayer(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players/STEAM_0:1:2":
			w.Write([]byte(`{"steamName":"bumblebee","steamID":"STEAM_0:1:2","steamUrl":"https://steamcommunity.com/profiles/1","country":"CL"}`))
		case "/players/STEAM_0:1:3":
			w.WriteHeader(http.StatusNotFound)
		case "/players/STEAM_0:1:4":
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	client := NewAGDBClient(&config.Config{AGDBAPIURL: srv.URL})
	ctx := testContext(t)

	player, err := client.GetPlayer(ctx, "STEAM_0:1:2")
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if player.Country != "CL" {
		t.Errorf("expected CL, got %q", player.Country)
	}

	if _, err := client.GetPlayer(ctx, "STEAM_0:1:3"); !errors.Is(err, ErrAGDBPlayerNotFound) {
		t.Errorf("expected ErrAGDBPlayerNotFound, got %v", err)
	}
	if _, err := client.GetPlayer(ctx, "STEAM_0:1:4"); !errors.Is(err, ErrAGDBInvalidSteamID) {
		t.Errorf("expected ErrAGDBInvalidSteamID, got %v", err)
	}

	_, err = client.GetPlayer(ctx, "STEAM_0:1:5")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected a 500 StatusError, got %v", err)
	}
}
