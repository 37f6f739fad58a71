package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"casino/helpers"
	"casino/models"
	"casino/providers"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// GamesPageSize is the aggregator's fixed page size; a shorter page is the last.
	GamesPageSize = 50

	maxGamePages = 500
)

type SyncError struct {
	ProviderCode int64  `json:"provider_code,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	Page         int    `json:"page,omitempty"`
	Message      string `json:"message"`
}

type SyncReport struct {
	RunID             string      `json:"run_id"`
	ProvidersUpserted int         `json:"providers_upserted"`
	GamesUpserted     int         `json:"games_upserted"`
	Errors            []SyncError `json:"errors"`
	StartedAt         time.Time   `json:"started_at"`
	FinishedAt        time.Time   `json:"finished_at"`
}

type CatalogOptions struct {
	Provider    string
	PageDelay   time.Duration
	Concurrency int
}

// CatalogReconciler mirrors the aggregator's providers and games into the
// local catalog. Runs never overlap; failures of one provider are recorded
// in the report and do not stop the others.
type CatalogReconciler struct {
	db            *gorm.DB
	settings      *SettingsStore
	newAggregator AggregatorFactory
	provider      string
	pageDelay     time.Duration
	concurrency   int

	running sync.Mutex
}

func NewCatalogReconciler(db *gorm.DB, settings *SettingsStore, factory AggregatorFactory, opts CatalogOptions) *CatalogReconciler {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &CatalogReconciler{
		db:            db,
		settings:      settings,
		newAggregator: factory,
		provider:      opts.Provider,
		pageDelay:     opts.PageDelay,
		concurrency:   opts.Concurrency,
	}
}

func (r *CatalogReconciler) SyncCatalog(ctx context.Context) (SyncReport, error) {
	if !r.running.TryLock() {
		return SyncReport{}, ErrSyncInProgress
	}
	defer r.running.Unlock()

	setting, err := r.settings.Load(ctx, r.provider)
	if err != nil {
		return SyncReport{}, err
	}
	agg, err := r.newAggregator(setting)
	if err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{StartedAt: time.Now().UTC()}
	run := models.SyncRun{Status: models.SyncRunning, StartedAt: report.StartedAt}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return SyncReport{}, fmt.Errorf("start sync run: %w", err)
	}
	report.RunID = run.ID

	slog.InfoContext(ctx, "catalog sync started", "run_id", run.ID, "provider", r.provider)
	fetched := r.reconcile(ctx, agg, &report)
	report.FinishedAt = time.Now().UTC()

	status := models.SyncCompleted
	switch {
	case !fetched:
		status = models.SyncFailed
	case len(report.Errors) > 0:
		status = models.SyncPartial
	}
	if err := r.finishRun(context.WithoutCancel(ctx), run.ID, status, report); err != nil {
		slog.ErrorContext(ctx, "failed to record sync run", "run_id", run.ID, "error", err)
	}

	slog.InfoContext(ctx, "catalog sync finished",
		"run_id", run.ID,
		"status", status,
		"providers", report.ProvidersUpserted,
		"games", report.GamesUpserted,
		"errors", len(report.Errors),
	)
	return report, nil
}

// reconcile returns false when the provider list itself could not be fetched.
func (r *CatalogReconciler) reconcile(ctx context.Context, agg providers.Aggregator, report *SyncReport) bool {
	remote, err := agg.Providers(ctx)
	if err != nil {
		report.Errors = append(report.Errors, SyncError{Message: "fetch providers: " + err.Error()})
		return false
	}

	local := make([]models.GameProvider, 0, len(remote))
	for _, rp := range remote {
		p, err := r.upsertProvider(ctx, rp)
		if err != nil {
			report.Errors = append(report.Errors, SyncError{ProviderCode: rp.Code, ProviderName: rp.Name, Message: err.Error()})
			continue
		}
		report.ProvidersUpserted++
		local = append(local, p)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if r.pageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(r.pageDelay), 1)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.concurrency)

	for _, p := range local {
		g.Go(func() error {
			n, syncErr := r.syncProviderGames(ctx, agg, limiter, p)

			mu.Lock()
			defer mu.Unlock()
			report.GamesUpserted += n
			if syncErr != nil {
				report.Errors = append(report.Errors, *syncErr)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(report.Errors, func(i, j int) bool {
		return report.Errors[i].ProviderCode < report.Errors[j].ProviderCode
	})
	return true
}

func (r *CatalogReconciler) upsertProvider(ctx context.Context, rp providers.RemoteProvider) (models.GameProvider, error) {
	p := models.GameProvider{
		ExternalID: rp.Code,
		Name:       rp.Name,
		Slug:       helpers.Slugify(rp.Name),
		Logo:       helpers.NullableString(rp.Logo),
		IsActive:   true,
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "logo", "is_active", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return models.GameProvider{}, fmt.Errorf("upsert provider: %w", err)
	}

	var stored models.GameProvider
	if err := db.Where("external_id = ?", rp.Code).First(&stored).Error; err != nil {
		return models.GameProvider{}, fmt.Errorf("reload provider: %w", err)
	}
	return stored, nil
}

func (r *CatalogReconciler) syncProviderGames(ctx context.Context, agg providers.Aggregator, limiter *rate.Limiter, p models.GameProvider) (int, *SyncError) {
	upserted := 0
	fail := func(page int, err error) (int, *SyncError) {
		slog.WarnContext(ctx, "provider games sync failed", "provider", p.Name, "code", p.ExternalID, "page", page, "error", err)
		return upserted, &SyncError{ProviderCode: p.ExternalID, ProviderName: p.Name, Page: page, Message: err.Error()}
	}

	for page := 1; page <= maxGamePages; page++ {
		if err := limiter.Wait(ctx); err != nil {
			return fail(page, err)
		}

		games, err := agg.Games(ctx, p.ExternalID, page)
		if err != nil {
			return fail(page, err)
		}

		n, err := r.upsertGames(ctx, p, games)
		if err != nil {
			return fail(page, err)
		}
		upserted += n

		if len(games) < GamesPageSize {
			return upserted, nil
		}
	}

	return fail(maxGamePages, errors.New("page limit reached"))
}

func (r *CatalogReconciler) upsertGames(ctx context.Context, p models.GameProvider, games []providers.RemoteGame) (int, error) {
	rows := make([]models.Game, 0, len(games))
	index := make(map[string]int, len(games))
	for _, g := range games {
		if g.Code == "" {
			continue
		}
		row := models.Game{
			ExternalCode: g.Code,
			Name:         g.Name,
			Image:        helpers.NullableString(g.Image),
			ProviderID:   p.ID,
			IsActive:     true,
			RTP:          g.RTP,
		}
		// A code repeated within one page keeps its last occurrence.
		if i, ok := index[g.Code]; ok {
			rows[i] = row
			continue
		}
		index[g.Code] = len(rows)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image", "provider_id", "rtp", "is_active", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("upsert games: %w", err)
	}
	return len(rows), nil
}

func (r *CatalogReconciler) finishRun(ctx context.Context, id, status string, report SyncReport) error {
	errs := report.Errors
	if errs == nil {
		errs = []SyncError{}
	}
	raw, err := json.Marshal(errs)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&models.SyncRun{}).Where("id = ?", id).Updates(map[string]any{
		"status":             status,
		"providers_upserted": report.ProvidersUpserted,
		"games_upserted":     report.GamesUpserted,
		"errors":             datatypes.JSON(raw),
		"finished_at":        report.FinishedAt,
	}).Error
}

func (r *CatalogReconciler) RecentRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []models.SyncRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}
