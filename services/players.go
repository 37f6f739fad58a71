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

var ErrPlayerExists = errors.New("player already exists")

type RegisterPlayerRequest struct {
	UserCode string `json:"user_code"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{db: db}
}

// Register creates a player with a zero balance; funds only arrive through
// the ledger.
func (s *PlayerService) Register(ctx context.Context, req RegisterPlayerRequest) (models.Player, error) {
	player := models.Player{
		UserCode: strings.ToLower(strings.TrimSpace(req.UserCode)),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     strings.TrimSpace(req.Name),
	}

	if err := s.db.WithContext(ctx).Omit("balance").Create(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isPgCode(err, pgUniqueViolation) {
			return models.Player{}, ErrPlayerExists
		}
		return models.Player{}, fmt.Errorf("create player: %w", err)
	}
	return s.Get(ctx, player.ID)
}

func (s *PlayerService) Get(ctx context.Context, id string) (models.Player, error) {
	var player models.Player
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Player{}, ErrPlayerNotFound
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("load player: %w", err)
	}
	return player, nil
}

func (s *PlayerService) GetByUserCode(ctx context.Context, userCode string) (models.Player, error) {
	var player models.Player
	err := s.db.WithContext(ctx).Where("user_code = ?", userCode).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Player{}, ErrPlayerNotFound
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("load player: %w", err)
	}
	return player, nil
}

func (s *PlayerService) SetBlocked(ctx context.Context, id string, blocked bool, reason string) (models.Player, error) {
	updates := map[string]any{"is_blocked": blocked, "blocked_reason": nil}
	if blocked {
		updates["blocked_reason"] = helpers.NullableString(reason)
	}

	res := s.db.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.Player{}, fmt.Errorf("update player: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Player{}, ErrPlayerNotFound
	}
	return s.Get(ctx, id)
}

type PlayerFilter struct {
	Blocked *bool
	// Search matches user_code, email or name.
	Search string
	Limit  int
	Offset int
}

func (s *PlayerService) List(ctx context.Context, filter PlayerFilter) ([]models.Player, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	q := s.db.WithContext(ctx).Model(&models.Player{})
	if filter.Blocked != nil {
		q = q.Where("is_blocked = ?", *filter.Blocked)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(user_code) LIKE ? OR LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like, like)
	}

	var out []models.Player
	if err := q.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return out, nil
}
