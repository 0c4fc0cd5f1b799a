package webapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

// ServerTime returns the vendor backend clock. Unkeyed; usable as a
// cross-check against the native Utils.ServerTime.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	const op = "webapi.server_time"

	var payload struct {
		ServerTime       int64  `json:"servertime"`
		ServerTimeString string `json:"servertimestring"`
	}
	if err := c.get(ctx, op, "ISteamWebAPIUtil", "GetServerInfo", 1, url.Values{}, &payload); err != nil {
		return time.Time{}, err
	}
	if payload.ServerTime == 0 {
		return time.Time{}, errors.NativeCall(op, "response carried no server time")
	}
	return time.Unix(payload.ServerTime, 0).UTC(), nil
}

// ResolveVanityURL translates a profile vanity name into an account
// identifier. Keyed.
func (c *Client) ResolveVanityURL(ctx context.Context, vanity string) (steamworks.SteamID, error) {
	const op = "webapi.resolve_vanity_url"

	var payload struct {
		Response struct {
			Success int    `json:"success"`
			SteamID string `json:"steamid"`
			Message string `json:"message"`
		} `json:"response"`
	}
	params := url.Values{"vanityurl": {vanity}}
	if err := c.get(ctx, op, "ISteamUser", "ResolveVanityURL", 1, params, &payload); err != nil {
		return 0, err
	}
	if payload.Response.Success != 1 {
		detail := payload.Response.Message
		if detail == "" {
			detail = "vanity name not found"
		}
		return 0, errors.NativeCall(op, detail)
	}
	id, err := strconv.ParseUint(payload.Response.SteamID, 10, 64)
	if err != nil {
		return 0, errors.Wrap(op, errors.KindNativeCallFailure, err, "malformed steam id")
	}
	return steamworks.SteamID(id), nil
}

// Player is one entry from GetPlayerSummaries.
type Player struct {
	SteamID      string `json:"steamid"`
	PersonaName  string `json:"personaname"`
	ProfileURL   string `json:"profileurl"`
	Avatar       string `json:"avatarfull"`
	PersonaState int    `json:"personastate"`
	LastLogoff   int64  `json:"lastlogoff"`
}

// ID returns the parsed account identifier.
func (p Player) ID() steamworks.SteamID {
	id, _ := strconv.ParseUint(p.SteamID, 10, 64)
	return steamworks.SteamID(id)
}

// PlayerSummaries fetches profile summaries for up to 100 accounts.
// Keyed. Unknown accounts are simply absent from the result.
func (c *Client) PlayerSummaries(ctx context.Context, ids ...steamworks.SteamID) ([]Player, error) {
	const op = "webapi.player_summaries"

	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > 100 {
		return nil, errors.NativeCall(op, "at most 100 accounts per request")
	}

	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = id.String()
	}

	var payload struct {
		Response struct {
			Players []Player `json:"players"`
		} `json:"response"`
	}
	params := url.Values{"steamids": {strings.Join(joined, ",")}}
	if err := c.get(ctx, op, "ISteamUser", "GetPlayerSummaries", 2, params, &payload); err != nil {
		return nil, err
	}
	return payload.Response.Players, nil
}

// Game is one entry from GetOwnedGames.
type Game struct {
	AppID           steamworks.AppID `json:"appid"`
	Name            string           `json:"name"`
	PlaytimeForever int              `json:"playtime_forever"`
}

// OwnedGames lists the apps an account owns. Keyed; respects the
// account's privacy settings, returning an empty list for private
// profiles rather than an error.
func (c *Client) OwnedGames(ctx context.Context, id steamworks.SteamID) ([]Game, error) {
	const op = "webapi.owned_games"

	var payload struct {
		Response struct {
			GameCount int    `json:"game_count"`
			Games     []Game `json:"games"`
		} `json:"response"`
	}
	params := url.Values{
		"steamid":         {id.String()},
		"include_appinfo": {"1"},
	}
	if err := c.get(ctx, op, "IPlayerService", "GetOwnedGames", 1, params, &payload); err != nil {
		return nil, err
	}
	return payload.Response.Games, nil
}
