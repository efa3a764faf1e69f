package domain

import (
	"errors"
	"testing"
)

func TestParseSteam2(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want64  uint64
		wantErr bool
	}{
		{"auth bit one", "STEAM_0:1:2", 76561197960265733, false},
		{"auth bit zero", "STEAM_0:0:11101", 76561197960287930, false},
		{"universe one", "STEAM_1:1:2", 76561197960265733, false},
		{"missing prefix", "0:1:2", 0, true},
		{"lowercase prefix", "steam_0:1:2", 0, true},
		{"bad auth bit", "STEAM_0:2:2", 0, true},
		{"bad universe", "STEAM_9:1:2", 0, true},
		{"too few parts", "STEAM_0:1", 0, true},
		{"non numeric", "STEAM_0:1:abc", 0, true},
		{"negative account", "STEAM_0:1:-4", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSteam2(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSteamID) {
					t.Errorf("expected ErrInvalidSteamID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSteam2(%q): %v", tt.input, err)
			}
			if got := id.SteamID64(); got != tt.want64 {
				t.Errorf("SteamID64() = %d, want %d", got, tt.want64)
			}
			if id.String() != tt.input {
				t.Errorf("String() = %q, want %q", id.String(), tt.input)
			}
		})
	}
}
