package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casino/helpers"
	"casino/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateBonusRequest struct {
	Name                string                `json:"name"`
	Description         string                `json:"description"`
	Type                string                `json:"type"`
	Value               decimal.Decimal       `json:"value"`
	ValueType           models.BonusValueType `json:"value_type"`
	Code                string                `json:"code"`
	MinDeposit          decimal.Decimal       `json:"min_deposit"`
	MaxBonus            decimal.Decimal       `json:"max_bonus"`
	WageringRequirement int                   `json:"wagering_requirement"`
	ValidDays           int                   `json:"valid_days"`
	MaxUses             *int                  `json:"max_uses"`
	IsActive            *bool                 `json:"is_active"`
}

// BonusService manages promotional campaigns. A redemption credits the
// ledger once per player and campaign (kind bonus, reference
// "<bonus id>:<player id>").
type BonusService struct {
	db     *gorm.DB
	ledger *BalanceLedger
}

func NewBonusService(db *gorm.DB, ledger *BalanceLedger) *BonusService {
	return &BonusService{db: db, ledger: ledger}
}

func normalizeBonusCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *BonusService) Create(ctx context.Context, req CreateBonusRequest) (models.Bonus, error) {
	name := strings.TrimSpace(req.Name)
	if req.ValueType == "" {
		req.ValueType = models.BonusPercent
	}
	if req.Type = strings.TrimSpace(req.Type); req.Type == "" {
		req.Type = "deposit"
	}

	switch {
	case name == "":
		return models.Bonus{}, fmt.Errorf("%w: name is required", ErrInvalidBonus)
	case !req.ValueType.Valid():
		return models.Bonus{}, fmt.Errorf("%w: value_type must be percent or fixed", ErrInvalidBonus)
	case !req.Value.IsPositive() || !req.Value.Equal(req.Value.Round(2)):
		return models.Bonus{}, fmt.Errorf("%w: value must be positive with at most two decimals", ErrInvalidBonus)
	case req.MinDeposit.IsNegative() || req.MaxBonus.IsNegative():
		return models.Bonus{}, fmt.Errorf("%w: min_deposit and max_bonus cannot be negative", ErrInvalidBonus)
	case req.MaxUses != nil && *req.MaxUses <= 0:
		return models.Bonus{}, fmt.Errorf("%w: max_uses must be positive", ErrInvalidBonus)
	}

	bonus := models.Bonus{
		Name:                name,
		Description:         helpers.NullableString(req.Description),
		Type:                req.Type,
		Value:               req.Value,
		ValueType:           req.ValueType,
		Code:                helpers.NullableString(normalizeBonusCode(req.Code)),
		MinDeposit:          req.MinDeposit,
		MaxBonus:            req.MaxBonus,
		WageringRequirement: req.WageringRequirement,
		ValidDays:           req.ValidDays,
		IsActive:            req.IsActive == nil || *req.IsActive,
		MaxUses:             req.MaxUses,
	}
	// Select("*") keeps an explicit is_active=false from being replaced by the column default.
	if err := s.db.WithContext(ctx).Select("*").Create(&bonus).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isPgCode(err, pgUniqueViolation) {
			return models.Bonus{}, ErrBonusCodeExists
		}
		return models.Bonus{}, fmt.Errorf("create bonus: %w", err)
	}
	return bonus, nil
}

func (s *BonusService) List(ctx context.Context, activeOnly bool) ([]models.Bonus, error) {
	q := s.db.WithContext(ctx).Model(&models.Bonus{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Bonus
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list bonuses: %w", err)
	}
	return out, nil
}

func (s *BonusService) SetActive(ctx context.Context, id string, active bool) (models.Bonus, error) {
	res := s.db.WithContext(ctx).Model(&models.Bonus{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return models.Bonus{}, fmt.Errorf("toggle bonus: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Bonus{}, ErrBonusNotFound
	}
	var b models.Bonus
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return models.Bonus{}, fmt.Errorf("reload bonus: %w", err)
	}
	return b, nil
}

// Delete removes the campaign. Credits already granted stay in the ledger.
func (s *BonusService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bonus{})
	if res.Error != nil {
		return fmt.Errorf("delete bonus: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBonusNotFound
	}
	return nil
}

// Redeem credits the bonus for the player's most recent confirmed deposit.
func (s *BonusService) Redeem(ctx context.Context, playerID, code string) (models.Transaction, error) {
	code = normalizeBonusCode(code)
	if code == "" {
		return models.Transaction{}, ErrBonusNotFound
	}

	var txn models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bonus models.Bonus
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("code = ?", code).First(&bonus).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBonusNotFound
		}
		if err != nil {
			return fmt.Errorf("lock bonus: %w", err)
		}
		if !bonus.IsActive {
			return ErrBonusInactive
		}
		if bonus.MaxUses != nil && bonus.CurrentUses >= *bonus.MaxUses {
			return ErrBonusExhausted
		}

		var player models.Player
		err = tx.Where("id = ?", playerID).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlayerNotFound
		}
		if err != nil {
			return fmt.Errorf("load player: %w", err)
		}
		if player.IsBlocked {
			return ErrPlayerBlocked
		}

		reference := bonus.ID + ":" + player.ID
		if _, redeemed, err := s.ledger.FindByReference(tx, models.KindBonus, reference); err != nil {
			return err
		} else if redeemed {
			return ErrBonusAlreadyRedeemed
		}

		var deposit models.Deposit
		err = tx.Where("player_id = ? AND status = ?", player.ID, models.StatusCompleted).
			Order("confirmed_at DESC").First(&deposit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBonusNotEligible
		}
		if err != nil {
			return fmt.Errorf("load qualifying deposit: %w", err)
		}

		amount := bonusAmount(bonus, deposit.Amount)
		if deposit.Amount.LessThan(bonus.MinDeposit) || !amount.IsPositive() {
			return ErrBonusNotEligible
		}

		txn, err = s.ledger.AdjustTx(tx, AdjustRequest{
			PlayerID:    player.ID,
			Amount:      amount,
			Kind:        models.KindBonus,
			ReferenceID: reference,
			Metadata: map[string]any{
				"bonus_id":             bonus.ID,
				"code":                 code,
				"deposit_id":           deposit.ID,
				"wagering_requirement": bonus.WageringRequirement,
				"valid_days":           bonus.ValidDays,
			},
		})
		if errors.Is(err, ErrDuplicateReference) {
			return ErrBonusAlreadyRedeemed
		}
		if err != nil {
			return err
		}

		return tx.Model(&bonus).UpdateColumn("current_uses", gorm.Expr("current_uses + 1")).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

func bonusAmount(b models.Bonus, deposit decimal.Decimal) decimal.Decimal {
	amount := b.Value
	if b.ValueType == models.BonusPercent {
		amount = deposit.Mul(b.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	if b.MaxBonus.IsPositive() && amount.GreaterThan(b.MaxBonus) {
		amount = b.MaxBonus
	}
	return amount
}
