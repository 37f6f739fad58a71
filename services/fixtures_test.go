package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"casino/database/dbtest"
	"casino/models"
	"casino/providers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newPlayer(t *testing.T, db *gorm.DB, balance string) models.Player {
	t.Helper()
	ctx := context.Background()

	player, err := NewPlayerService(db).Register(ctx, RegisterPlayerRequest{Email: t.Name() + "@example.com"})
	require.NoError(t, err)

	if amount := dec(balance); !amount.IsZero() {
		_, err := NewBalanceLedger(db).Adjust(ctx, AdjustRequest{
			PlayerID: player.ID,
			Amount:   amount,
			Kind:     models.KindAdjustment,
		})
		require.NoError(t, err)
		player.Balance = amount
	}
	return player
}

func requireBalance(t *testing.T, db *gorm.DB, playerID, want string) {
	t.Helper()
	got, err := NewBalanceLedger(db).Balance(context.Background(), playerID)
	require.NoError(t, err)
	require.True(t, dec(want).Equal(got), "balance: want %s, got %s", want, got)
}

func seedSettings(t *testing.T, db *gorm.DB) *SettingsStore {
	t.Helper()
	store := NewSettingsStore(db)
	_, err := store.Save(context.Background(), models.ApiSetting{
		Provider:    "fake",
		AgentToken:  "token",
		SecretKey:   "secret",
		IsActive:    true,
		AgentCode:   "agent",
		AgentSecret: "agent-secret",
	})
	require.NoError(t, err)
	return store
}

// fakeAggregator serves a scripted catalog. games maps provider code to the
// full game list; pages are cut at GamesPageSize.
type fakeAggregator struct {
	mu        sync.Mutex
	providers []providers.RemoteProvider
	games     map[int64][]providers.RemoteGame
	failGames map[int64]error
	pageCalls map[int64][]int

	launchURL string
	launchErr error
	launches  []providers.LaunchRequest
	gate      chan struct{}
}

func newFakeAggregator() *fakeAggregator {
	return &fakeAggregator{
		games:     map[int64][]providers.RemoteGame{},
		failGames: map[int64]error{},
		pageCalls: map[int64][]int{},
	}
}

func (f *fakeAggregator) factory() AggregatorFactory {
	return func(models.ApiSetting) (providers.Aggregator, error) { return f, nil }
}

func (f *fakeAggregator) Providers(ctx context.Context) ([]providers.RemoteProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]providers.RemoteProvider(nil), f.providers...), nil
}

func (f *fakeAggregator) Games(ctx context.Context, code int64, page int) ([]providers.RemoteGame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls[code] = append(f.pageCalls[code], page)
	if err := f.failGames[code]; err != nil {
		return nil, err
	}

	all := f.games[code]
	start := (page - 1) * GamesPageSize
	if start >= len(all) {
		return nil, nil
	}
	end := min(start+GamesPageSize, len(all))
	return append([]providers.RemoteGame(nil), all[start:end]...), nil
}

func (f *fakeAggregator) OpenGame(ctx context.Context, req providers.LaunchRequest) (string, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches = append(f.launches, req)
	if f.launchErr != nil {
		return "", f.launchErr
	}
	return f.launchURL, nil
}

func makeGames(prefix string, n int) []providers.RemoteGame {
	games := make([]providers.RemoteGame, n)
	for i := range games {
		games[i] = providers.RemoteGame{
			Code: fmt.Sprintf("%s-%03d", prefix, i),
			Name: fmt.Sprintf("%s game %d", prefix, i),
		}
	}
	return games
}

func newTestDB(t *testing.T) *gorm.DB {
	return dbtest.New(t)
}
