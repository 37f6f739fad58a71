package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casino/helpers"
	"casino/models"

	"gorm.io/gorm"
)

type GameFilter struct {
	ProviderID uint
	CategoryID uint
	ActiveOnly bool
	Search     string

	// nil leaves the flag unfiltered.
	Featured *bool
	New      *bool
	Live     *bool
	Original *bool

	Limit  int
	Offset int
}

// GameFlags carries the lobby badges; nil fields are left unchanged.
type GameFlags struct {
	IsFeatured *bool `json:"is_featured"`
	IsNew      *bool `json:"is_new"`
	IsLive     *bool `json:"is_live"`
	IsOriginal *bool `json:"is_original"`
}

type CreateCategoryRequest struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Icon       string `json:"icon"`
	OrderIndex int    `json:"order_index"`
}

// Catalog serves operator reads and the local-only toggles on the mirrored
// catalog.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) Providers(ctx context.Context, activeOnly bool) ([]models.GameProvider, error) {
	q := c.db.WithContext(ctx).Model(&models.GameProvider{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.GameProvider
	if err := q.Order("order_index ASC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return out, nil
}

func (c *Catalog) Games(ctx context.Context, filter GameFilter) ([]models.Game, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	q := c.db.WithContext(ctx).Model(&models.Game{})
	if filter.ProviderID != 0 {
		q = q.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	for column, flag := range map[string]*bool{
		"is_featured": filter.Featured,
		"is_new":      filter.New,
		"is_live":     filter.Live,
		"is_original": filter.Original,
	} {
		if flag != nil {
			q = q.Where(column+" = ?", *flag)
		}
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var out []models.Game
	err := q.Order("order_index ASC").Order("play_count DESC").Order("name ASC").
		Limit(filter.Limit).Offset(filter.Offset).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

// SetProviderActive is the only way a provider leaves the catalog; sync never
// deletes rows.
func (c *Catalog) SetProviderActive(ctx context.Context, id uint, active bool) (models.GameProvider, error) {
	if err := c.setActive(ctx, &models.GameProvider{}, id, active); err != nil {
		return models.GameProvider{}, err
	}
	var p models.GameProvider
	if err := c.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return models.GameProvider{}, fmt.Errorf("reload provider: %w", err)
	}
	return p, nil
}

func (c *Catalog) SetGameActive(ctx context.Context, id uint, active bool) (models.Game, error) {
	if err := c.setActive(ctx, &models.Game{}, id, active); err != nil {
		return models.Game{}, err
	}
	var g models.Game
	if err := c.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return models.Game{}, fmt.Errorf("reload game: %w", err)
	}
	return g, nil
}

func (c *Catalog) Categories(ctx context.Context, activeOnly bool) ([]models.GameCategory, error) {
	q := c.db.WithContext(ctx).Model(&models.GameCategory{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.GameCategory
	if err := q.Order("order_index ASC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (c *Catalog) CreateCategory(ctx context.Context, req CreateCategoryRequest) (models.GameCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.GameCategory{}, ErrInvalidCategory
	}
	slug := strings.Trim(helpers.Slugify(req.Slug), "-")
	if slug == "" {
		slug = strings.Trim(helpers.Slugify(name), "-")
	}
	if slug == "" {
		return models.GameCategory{}, ErrInvalidCategory
	}

	cat := models.GameCategory{
		Name:       name,
		Slug:       slug,
		Icon:       helpers.NullableString(req.Icon),
		IsActive:   true,
		OrderIndex: req.OrderIndex,
	}
	if err := c.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isPgCode(err, pgUniqueViolation) {
			return models.GameCategory{}, ErrCategoryExists
		}
		return models.GameCategory{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (c *Catalog) SetCategoryActive(ctx context.Context, id uint, active bool) (models.GameCategory, error) {
	if err := c.setActive(ctx, &models.GameCategory{}, id, active); err != nil {
		return models.GameCategory{}, err
	}
	var cat models.GameCategory
	if err := c.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return models.GameCategory{}, fmt.Errorf("reload category: %w", err)
	}
	return cat, nil
}

// SetGameCategory assigns a game to a category; a nil categoryID clears it.
func (c *Catalog) SetGameCategory(ctx context.Context, gameID uint, categoryID *uint) (models.Game, error) {
	if categoryID != nil {
		var n int64
		if err := c.db.WithContext(ctx).Model(&models.GameCategory{}).Where("id = ?", *categoryID).Count(&n).Error; err != nil {
			return models.Game{}, fmt.Errorf("check category: %w", err)
		}
		if n == 0 {
			return models.Game{}, ErrCatalogEntryNotFound
		}
	}
	return c.updateGame(ctx, gameID, map[string]any{"category_id": categoryID})
}

func (c *Catalog) SetGameFlags(ctx context.Context, gameID uint, flags GameFlags) (models.Game, error) {
	updates := map[string]any{}
	if flags.IsFeatured != nil {
		updates["is_featured"] = *flags.IsFeatured
	}
	if flags.IsNew != nil {
		updates["is_new"] = *flags.IsNew
	}
	if flags.IsLive != nil {
		updates["is_live"] = *flags.IsLive
	}
	if flags.IsOriginal != nil {
		updates["is_original"] = *flags.IsOriginal
	}
	if len(updates) == 0 {
		var g models.Game
		err := c.db.WithContext(ctx).First(&g, gameID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Game{}, ErrCatalogEntryNotFound
		}
		return g, err
	}
	return c.updateGame(ctx, gameID, updates)
}

func (c *Catalog) updateGame(ctx context.Context, id uint, updates map[string]any) (models.Game, error) {
	res := c.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.Game{}, fmt.Errorf("update game: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Game{}, ErrCatalogEntryNotFound
	}
	var g models.Game
	if err := c.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return models.Game{}, fmt.Errorf("reload game: %w", err)
	}
	return g, nil
}

func (c *Catalog) setActive(ctx context.Context, model any, id uint, active bool) error {
	res := c.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("toggle active: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCatalogEntryNotFound
	}
	return nil
}
