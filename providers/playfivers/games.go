package playfivers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"casino/providers"
)

type providerEntry struct {
	Code providers.FlexibleString `json:"code"`
	Name string                   `json:"name"`
	Icon string                   `json:"icon"`
}

type providersResponse struct {
	Status    json.RawMessage   `json:"status"`
	Providers *[]providerEntry `json:"providers"`
}

type gameEntry struct {
	GameCode providers.FlexibleString `json:"game_code"`
	GameName string                   `json:"game_name"`
	Banner   string                   `json:"banner"`
	RTP      providers.FlexibleString `json:"rtp"`
}

type gamesResponse struct {
	Games []gameEntry `json:"games"`
}

type openGameResponse struct {
	LaunchURL string `json:"launch_url"`
	URL       string `json:"url"`
	GameURL   string `json:"game_url"`
}

func (c *Client) Providers(ctx context.Context) ([]providers.RemoteProvider, error) {
	raw, err := c.Call(ctx, EndpointProviders, nil)
	if err != nil {
		return nil, err
	}

	var resp providersResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformed(EndpointProviders, "decode providers: "+err.Error())
	}
	// The provider list is only trusted on an explicit success status.
	var status string
	if err := json.Unmarshal(resp.Status, &status); err != nil || !strings.EqualFold(strings.TrimSpace(status), "success") {
		return nil, &providers.CallError{
			Kind:     providers.KindProviderError,
			Endpoint: EndpointProviders,
			Message:  "unexpected provider list status: " + snippet(resp.Status),
		}
	}
	if resp.Providers == nil {
		return nil, malformed(EndpointProviders, "response has no providers list: "+snippet(raw))
	}

	out := make([]providers.RemoteProvider, 0, len(*resp.Providers))
	for _, p := range *resp.Providers {
		code, err := p.Code.ToInt64()
		if err != nil {
			slog.WarnContext(ctx, "skipping provider with non-numeric code", "code", p.Code.String(), "name", p.Name)
			continue
		}
		out = append(out, providers.RemoteProvider{
			Code: code,
			Name: strings.TrimSpace(p.Name),
			Logo: strings.TrimSpace(p.Icon),
		})
	}
	return out, nil
}

func (c *Client) Games(ctx context.Context, providerCode int64, page int) ([]providers.RemoteGame, error) {
	raw, err := c.Call(ctx, EndpointGames, map[string]any{
		"provider_code": providerCode,
		"page":          page,
	})
	if err != nil {
		return nil, err
	}

	var resp gamesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformed(EndpointGames, "decode games: "+err.Error())
	}

	out := make([]providers.RemoteGame, 0, len(resp.Games))
	for _, g := range resp.Games {
		out = append(out, providers.RemoteGame{
			Code:  g.GameCode.String(),
			Name:  strings.TrimSpace(g.GameName),
			Image: strings.TrimSpace(g.Banner),
			RTP:   g.RTP.Float(),
		})
	}
	return out, nil
}

func (c *Client) OpenGame(ctx context.Context, req providers.LaunchRequest) (string, error) {
	raw, err := c.Call(ctx, EndpointOpenGame, map[string]any{
		"user_code":    req.UserCode,
		"user_balance": req.UserBalance.InexactFloat64(),
		"game_code":    req.GameCode,
		"lang":         req.Lang,
		"home_url":     req.HomeURL,
	})
	if err != nil {
		return "", err
	}

	var resp openGameResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", malformed(EndpointOpenGame, "decode launch: "+err.Error())
	}

	for _, u := range []string{resp.LaunchURL, resp.URL, resp.GameURL} {
		if u = strings.TrimSpace(u); u != "" {
			return u, nil
		}
	}
	return "", &providers.CallError{
		Kind:     providers.KindProviderError,
		Endpoint: EndpointOpenGame,
		Message:  "provider returned no launch url",
	}
}

func malformed(endpoint, msg string) error {
	return &providers.CallError{Kind: providers.KindMalformedResponse, Endpoint: endpoint, Message: msg}
}
