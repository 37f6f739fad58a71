package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"casino/helpers"
	"casino/models"
	"casino/providers"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const LaunchProviderRejected = "providerRejected"

// LaunchError is a failed aggregator launch. Kind is LaunchProviderRejected
// when the aggregator answered with an error; otherwise it is the
// providers.ErrorKind of the failed call.
type LaunchError struct {
	Kind    string
	Message string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %s", e.Kind, e.Message)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Rejected reports whether Message came from the aggregator and can be shown
// to the player as is.
func (e *LaunchError) Rejected() bool {
	return e.Kind == LaunchProviderRejected
}

type LaunchResult struct {
	URL      string          `json:"launch_url"`
	GameCode string          `json:"game_code"`
	Balance  decimal.Decimal `json:"balance"`
}

type LaunchOptions struct {
	Provider string
	Lang     string
	HomeURL  string
}

// GameLaunchGateway asks the aggregator for a game session URL. It reads the
// player's balance but never writes it.
type GameLaunchGateway struct {
	db            *gorm.DB
	settings      *SettingsStore
	newAggregator AggregatorFactory
	opts          LaunchOptions

	inflight singleflight.Group
}

func NewGameLaunchGateway(db *gorm.DB, settings *SettingsStore, factory AggregatorFactory, opts LaunchOptions) *GameLaunchGateway {
	if opts.Lang == "" {
		opts.Lang = "pt"
	}
	return &GameLaunchGateway{db: db, settings: settings, newAggregator: factory, opts: opts}
}

// Launch collapses concurrent launches of the same game by the same player
// into one aggregator call.
func (g *GameLaunchGateway) Launch(ctx context.Context, playerID, gameCode string) (LaunchResult, error) {
	gameCode = strings.TrimSpace(gameCode)
	if gameCode == "" {
		return LaunchResult{}, errors.New("game code is required")
	}

	// The shared call must outlive any one caller; the aggregator client
	// timeout still bounds it.
	ch := g.inflight.DoChan(playerID+"\x00"+gameCode, func() (any, error) {
		return g.launch(context.WithoutCancel(ctx), playerID, gameCode)
	})
	select {
	case <-ctx.Done():
		return LaunchResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return LaunchResult{}, res.Err
		}
		return res.Val.(LaunchResult), nil
	}
}

func (g *GameLaunchGateway) launch(ctx context.Context, playerID, gameCode string) (LaunchResult, error) {
	var player models.Player
	err := g.db.WithContext(ctx).Where("id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LaunchResult{}, ErrPlayerNotFound
	}
	if err != nil {
		return LaunchResult{}, fmt.Errorf("load player: %w", err)
	}
	if player.IsBlocked {
		return LaunchResult{}, ErrPlayerBlocked
	}

	setting, err := g.settings.Load(ctx, g.opts.Provider)
	if err != nil {
		return LaunchResult{}, err
	}
	agg, err := g.newAggregator(setting)
	if err != nil {
		return LaunchResult{}, err
	}

	url, err := agg.OpenGame(ctx, providers.LaunchRequest{
		UserCode:    player.UserCode,
		UserBalance: player.Balance,
		GameCode:    gameCode,
		Lang:        g.opts.Lang,
		HomeURL:     g.opts.HomeURL,
	})
	if err != nil {
		return LaunchResult{}, launchError(err)
	}

	res := g.db.WithContext(ctx).Model(&models.Game{}).
		Where("external_code = ?", gameCode).
		UpdateColumn("play_count", gorm.Expr("play_count + 1"))
	if res.Error != nil {
		slog.WarnContext(ctx, "failed to count game launch", "game_code", gameCode, "error", res.Error)
	}

	return LaunchResult{
		URL:      helpers.NormalizeURL(url),
		GameCode: gameCode,
		Balance:  player.Balance,
	}, nil
}

func launchError(err error) error {
	var callErr *providers.CallError
	if !errors.As(err, &callErr) {
		return &LaunchError{Kind: string(providers.KindTransport), Message: err.Error(), Err: err}
	}
	if callErr.Kind == providers.KindProviderError {
		return &LaunchError{Kind: LaunchProviderRejected, Message: callErr.Message, Err: err}
	}
	return &LaunchError{Kind: string(callErr.Kind), Message: callErr.Message, Err: err}
}
