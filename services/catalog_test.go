package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"casino/models"
	"casino/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReconciler(t *testing.T, agg *fakeAggregator) (*CatalogReconciler, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	settings := seedSettings(t, db)
	r := NewCatalogReconciler(db, settings, agg.factory(), CatalogOptions{
		Provider:    "fake",
		Concurrency: 3,
	})
	return r, db
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSyncCatalogIsIdempotent(t *testing.T) {
	agg := newFakeAggregator()
	agg.providers = []providers.RemoteProvider{
		{Code: 1, Name: "Pragmatic Play", Logo: "https://cdn/pp.png"},
		{Code: 2, Name: "PG Soft"},
	}
	agg.games[1] = makeGames("pp", 3)
	agg.games[2] = makeGames("pg", 2)

	r, db := newReconciler(t, agg)
	ctx := context.Background()

	report, err := r.SyncCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 2, report.ProvidersUpserted)
	assert.Equal(t, 5, report.GamesUpserted)

	var first []models.GameProvider
	require.NoError(t, db.Order("external_id").Find(&first).Error)
	require.Len(t, first, 2)
	assert.Equal(t, "pragmatic-play", first[0].Slug)
	require.NotNil(t, first[0].Logo)
	assert.Nil(t, first[1].Logo)

	var games []models.Game
	require.NoError(t, db.Order("external_code").Find(&games).Error)
	gameIDs := map[string]uint{}
	for _, g := range games {
		gameIDs[g.ExternalCode] = g.ID
	}

	_, err = r.SyncCatalog(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), countRows(t, db, &models.GameProvider{}))
	assert.Equal(t, int64(5), countRows(t, db, &models.Game{}))

	var second []models.GameProvider
	require.NoError(t, db.Order("external_id").Find(&second).Error)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	require.NoError(t, db.Order("external_code").Find(&games).Error)
	for _, g := range games {
		assert.Equal(t, gameIDs[g.ExternalCode], g.ID, g.ExternalCode)
	}
}

func TestSyncCatalogPagination(t *testing.T) {
	agg := newFakeAggregator()
	agg.providers = []providers.RemoteProvider{
		{Code: 10, Name: "Exactly Fifty"},
		{Code: 20, Name: "Forty Nine"},
		{Code: 30, Name: "One Twenty"},
	}
	agg.games[10] = makeGames("fifty", 50)
	agg.games[20] = makeGames("fortynine", 49)
	agg.games[30] = makeGames("onetwenty", 120)

	r, db := newReconciler(t, agg)

	report, err := r.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 219, report.GamesUpserted)
	assert.Equal(t, int64(219), countRows(t, db, &models.Game{}))

	assert.Equal(t, []int{1, 2}, agg.pageCalls[10], "a full page is followed by another request")
	assert.Equal(t, []int{1}, agg.pageCalls[20], "a short page ends pagination")
	assert.Equal(t, []int{1, 2, 3}, agg.pageCalls[30])
}

func TestSyncCatalogPartialFailure(t *testing.T) {
	agg := newFakeAggregator()
	agg.providers = []providers.RemoteProvider{
		{Code: 1, Name: "A"},
		{Code: 2, Name: "B"},
		{Code: 3, Name: "C"},
	}
	agg.games[1] = makeGames("a", 60)
	agg.games[2] = makeGames("b", 10)
	agg.games[3] = makeGames("c", 5)
	agg.failGames[2] = &providers.CallError{Kind: providers.KindHTTP, StatusCode: 500, Message: "HTTP 500: boom"}

	r, db := newReconciler(t, agg)

	report, err := r.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.ProvidersUpserted)
	assert.Equal(t, 65, report.GamesUpserted)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, int64(2), report.Errors[0].ProviderCode)
	assert.Equal(t, "B", report.Errors[0].ProviderName)
	assert.Equal(t, 1, report.Errors[0].Page)
	assert.Contains(t, report.Errors[0].Message, "HTTP 500")

	var a, c models.GameProvider
	require.NoError(t, db.Where("external_id = ?", 1).First(&a).Error)
	require.NoError(t, db.Where("external_id = ?", 3).First(&c).Error)
	var n int64
	require.NoError(t, db.Model(&models.Game{}).Where("provider_id = ?", a.ID).Count(&n).Error)
	assert.Equal(t, int64(60), n)
	require.NoError(t, db.Model(&models.Game{}).Where("provider_id = ?", c.ID).Count(&n).Error)
	assert.Equal(t, int64(5), n)

	runs, err := r.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].ID)
	assert.Equal(t, models.SyncPartial, runs[0].Status)
	assert.NotNil(t, runs[0].FinishedAt)

	var recorded []SyncError
	require.NoError(t, json.Unmarshal(runs[0].Errors, &recorded))
	assert.Equal(t, report.Errors, recorded)
}

func TestSyncCatalogRoundTripsRemoteChanges(t *testing.T) {
	agg := newFakeAggregator()
	agg.providers = []providers.RemoteProvider{{Code: 7, Name: "Hacksaw"}, {Code: 8, Name: "Nolimit City"}}
	rtp := 96.2
	agg.games[7] = []providers.RemoteGame{{Code: "wanted", Name: "Wanted Dead", Image: "a.png", RTP: &rtp}}

	r, db := newReconciler(t, agg)
	ctx := context.Background()

	_, err := r.SyncCatalog(ctx)
	require.NoError(t, err)

	var game models.Game
	require.NoError(t, db.Where("external_code = ?", "wanted").First(&game).Error)
	originalID := game.ID

	// Local-only fields must survive later syncs.
	require.NoError(t, db.Model(&game).Updates(map[string]any{"play_count": 42, "order_index": 3}).Error)

	agg.providers[0].Name = "Hacksaw Gaming"
	agg.games[7] = nil
	agg.games[8] = []providers.RemoteGame{{Code: "wanted", Name: "Wanted Dead or a Wild", Image: ""}}

	_, err = r.SyncCatalog(ctx)
	require.NoError(t, err)

	var nolimit models.GameProvider
	require.NoError(t, db.Where("external_id = ?", 8).First(&nolimit).Error)

	require.NoError(t, db.Where("external_code = ?", "wanted").First(&game).Error)
	assert.Equal(t, originalID, game.ID)
	assert.Equal(t, "Wanted Dead or a Wild", game.Name)
	assert.Equal(t, nolimit.ID, game.ProviderID)
	assert.Nil(t, game.Image)
	assert.Nil(t, game.RTP)
	assert.Equal(t, int64(42), game.PlayCount)
	assert.Equal(t, 3, game.OrderIndex)

	var hacksaw models.GameProvider
	require.NoError(t, db.Where("external_id = ?", 7).First(&hacksaw).Error)
	assert.Equal(t, "Hacksaw Gaming", hacksaw.Name)
	assert.Equal(t, "hacksaw", hacksaw.Slug, "slug is fixed at insert")
}

func TestSyncCatalogKeepsProvidersDroppedRemotely(t *testing.T) {
	agg := newFakeAggregator()
	agg.providers = []providers.RemoteProvider{{Code: 1, Name: "Pragmatic Play"}, {Code: 2, Name: "PG Soft"}}
	agg.games[1] = makeGames("pp", 2)
	agg.games[2] = makeGames("pg", 3)

	r, db := newReconciler(t, agg)
	ctx := context.Background()

	_, err := r.SyncCatalog(ctx)
	require.NoError(t, err)

	var pgBefore models.GameProvider
	require.NoError(t, db.Where("external_id = ?", 2).First(&pgBefore).Error)
	var pgGamesBefore []models.Game
	require.NoError(t, db.Where("provider_id = ?", pgBefore.ID).Order("external_code").Find(&pgGamesBefore).Error)
	require.Len(t, pgGamesBefore, 3)

	agg.providers = agg.providers[:1]
	delete(agg.games, 2)

	report, err := r.SyncCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.ProvidersUpserted)

	assert.Equal(t, int64(2), countRows(t, db, &models.GameProvider{}))
	assert.Equal(t, int64(5), countRows(t, db, &models.Game{}))

	var pgAfter models.GameProvider
	require.NoError(t, db.Where("external_id = ?", 2).First(&pgAfter).Error)
	assert.Equal(t, pgBefore.ID, pgAfter.ID)
	assert.Equal(t, pgBefore.Name, pgAfter.Name)
	assert.Equal(t, pgBefore.Slug, pgAfter.Slug)
	assert.True(t, pgAfter.IsActive)

	var pgGamesAfter []models.Game
	require.NoError(t, db.Where("provider_id = ?", pgBefore.ID).Order("external_code").Find(&pgGamesAfter).Error)
	require.Len(t, pgGamesAfter, 3)
	for i := range pgGamesBefore {
		assert.Equal(t, pgGamesBefore[i].ID, pgGamesAfter[i].ID)
		assert.Equal(t, pgGamesBefore[i].Name, pgGamesAfter[i].Name)
		assert.True(t, pgGamesAfter[i].IsActive)
	}
	assert.Equal(t, []int{1}, agg.pageCalls[2], "dropped provider is not paged again")
}

func TestSyncCatalogSpacesPageRequests(t *testing.T) {
	agg := newFakeAggregator()
	agg.providers = []providers.RemoteProvider{{Code: 1, Name: "Pragmatic Play"}, {Code: 2, Name: "PG Soft"}}
	agg.games[1] = makeGames("pp", 2*GamesPageSize+1)
	agg.games[2] = makeGames("pg", 1)

	db := newTestDB(t)
	const delay = 40 * time.Millisecond
	r := NewCatalogReconciler(db, seedSettings(t, db), agg.factory(), CatalogOptions{
		Provider:    "fake",
		PageDelay:   delay,
		Concurrency: 2,
	})

	start := time.Now()
	_, err := r.SyncCatalog(context.Background())
	require.NoError(t, err)
	elapsed := time.Since(start)

	pages := len(agg.pageCalls[1]) + len(agg.pageCalls[2])
	require.Equal(t, 4, pages)
	assert.GreaterOrEqual(t, elapsed, time.Duration(pages-1)*delay)
}

func TestSyncCatalogProviderListFailure(t *testing.T) {
	db := newTestDB(t)
	settings := seedSettings(t, db)
	failing := func(models.ApiSetting) (providers.Aggregator, error) {
		return failingProviders{}, nil
	}
	r := NewCatalogReconciler(db, settings, failing, CatalogOptions{Provider: "fake"})

	report, err := r.SyncCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "fetch providers")
	assert.Zero(t, report.ProvidersUpserted)

	runs, err := r.RecentRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.SyncFailed, runs[0].Status)
}

func TestSyncCatalogRequiresSettings(t *testing.T) {
	db := newTestDB(t)
	r := NewCatalogReconciler(db, NewSettingsStore(db), newFakeAggregator().factory(), CatalogOptions{Provider: "fake"})

	_, err := r.SyncCatalog(context.Background())
	require.ErrorIs(t, err, ErrProviderUnconfigured)
}

func TestSyncCatalogRejectsOverlap(t *testing.T) {
	agg := newFakeAggregator()
	blocked := &blockingProviders{fakeAggregator: agg, entered: make(chan struct{}), release: make(chan struct{})}
	db := newTestDB(t)
	settings := seedSettings(t, db)
	r := NewCatalogReconciler(db, settings, func(models.ApiSetting) (providers.Aggregator, error) {
		return blocked, nil
	}, CatalogOptions{Provider: "fake"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := r.SyncCatalog(context.Background())
		assert.NoError(t, err)
	}()

	<-blocked.entered
	_, err := r.SyncCatalog(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(blocked.release)
	wg.Wait()

	_, err = r.SyncCatalog(context.Background())
	assert.NoError(t, err)
}

type failingProviders struct{ providers.Aggregator }

func (failingProviders) Providers(context.Context) ([]providers.RemoteProvider, error) {
	return nil, &providers.CallError{Kind: providers.KindMalformedResponse, Message: "invalid JSON: <html>"}
}

type blockingProviders struct {
	*fakeAggregator
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingProviders) Providers(ctx context.Context) ([]providers.RemoteProvider, error) {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		<-b.release
	}
	return b.fakeAggregator.Providers(ctx)
}
