package domain

import (
	"strconv"
	"strings"
)

const steamID64Base uint64 = 76561197960265728

// SteamID is a parsed textual Steam2 id (STEAM_X:Y:Z).
type SteamID struct {
	Universe  uint8
	AuthBit   uint8
	AccountNo uint32
}

func ParseSteam2(s string) (SteamID, error) {
	rest, ok := strings.CutPrefix(s, "STEAM_")
	if !ok {
		return SteamID{}, ErrInvalidSteamID
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return SteamID{}, ErrInvalidSteamID
	}

	universe, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || universe > 5 {
		return SteamID{}, ErrInvalidSteamID
	}
	authBit, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || authBit > 1 {
		return SteamID{}, ErrInvalidSteamID
	}
	// account numbers are 31 bits, the auth bit is the 32nd
	account, err := strconv.ParseUint(parts[2], 10, 31)
	if err != nil {
		return SteamID{}, ErrInvalidSteamID
	}

	return SteamID{
		Universe:  uint8(universe),
		AuthBit:   uint8(authBit),
		AccountNo: uint32(account),
	}, nil
}

// SteamID64 is the individual-account 64 bit form used by the Steam Web API.
func (id SteamID) SteamID64() uint64 {
	return steamID64Base + uint64(id.AccountNo)*2 + uint64(id.AuthBit)
}

func (id SteamID) String() string {
	return "STEAM_" + strconv.Itoa(int(id.Universe)) + ":" + strconv.Itoa(int(id.AuthBit)) + ":" + strconv.FormatUint(uint64(id.AccountNo), 10)
}
