package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"casino/helpers"
	"casino/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateDepositRequest struct {
	PlayerID   string
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	ExternalID string
	PixCode    string
}

// DepositService tracks PIX charges. A deposit credits the player only when
// the payment rail confirms it; the credited amount is the full Amount, Fee
// is informational.
type DepositService struct {
	db     *gorm.DB
	ledger *BalanceLedger
	ttl    time.Duration
	now    func() time.Time
}

func NewDepositService(db *gorm.DB, ledger *BalanceLedger, ttl time.Duration) *DepositService {
	return &DepositService{
		db:     db,
		ledger: ledger,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *DepositService) Create(ctx context.Context, req CreateDepositRequest) (models.Deposit, error) {
	if !req.Amount.IsPositive() || !req.Amount.Equal(req.Amount.Round(2)) || req.Fee.IsNegative() {
		return models.Deposit{}, ErrInvalidAmount
	}
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return models.Deposit{}, errors.New("external id is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Player{}).Where("id = ?", req.PlayerID).Count(&count).Error; err != nil {
		return models.Deposit{}, fmt.Errorf("load player: %w", err)
	}
	if count == 0 {
		return models.Deposit{}, ErrPlayerNotFound
	}

	d := models.Deposit{
		PlayerID:   req.PlayerID,
		Amount:     req.Amount,
		Fee:        req.Fee,
		Status:     models.StatusPending,
		ExternalID: externalID,
		PixCode:    helpers.NullableString(req.PixCode),
		ExpiresAt:  s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isPgCode(err, pgUniqueViolation) {
			return models.Deposit{}, ErrDuplicateDeposit
		}
		return models.Deposit{}, fmt.Errorf("create deposit: %w", err)
	}
	return d, nil
}

// Confirm credits a pending deposit. A confirmation that arrives after
// expires_at cancels the deposit instead and returns ErrDepositExpired.
func (s *DepositService) Confirm(ctx context.Context, externalID string) (models.Deposit, error) {
	var (
		d       models.Deposit
		expired bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("external_id = ?", externalID).First(&d).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepositNotFound
		}
		if err != nil {
			return fmt.Errorf("lock deposit: %w", err)
		}
		if d.Status.Terminal() {
			return fmt.Errorf("%w: deposit is %s", ErrAlreadyTerminal, d.Status)
		}

		now := s.now()
		if now.After(d.ExpiresAt) {
			expired = true
			d.Status = models.StatusCancelled
			return tx.Model(&d).Update("status", d.Status).Error
		}

		if _, err := s.ledger.AdjustTx(tx, AdjustRequest{
			PlayerID:    d.PlayerID,
			Amount:      d.Amount,
			Kind:        models.KindDeposit,
			ReferenceID: d.ID,
			Metadata:    map[string]any{"external_id": d.ExternalID, "fee": d.Fee.StringFixed(2)},
		}); err != nil {
			return err
		}

		d.Status = models.StatusCompleted
		d.ConfirmedAt = &now
		return tx.Model(&d).Updates(map[string]any{
			"status":       d.Status,
			"confirmed_at": d.ConfirmedAt,
		}).Error
	})
	if err != nil {
		return models.Deposit{}, err
	}
	if expired {
		return d, ErrDepositExpired
	}
	return d, nil
}

// ExpireStale cancels pending deposits whose expires_at is before now.
func (s *DepositService) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("status = ? AND expires_at < ?", models.StatusPending, now).
		Update("status", models.StatusCancelled)
	if res.Error != nil {
		return 0, fmt.Errorf("expire deposits: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *DepositService) ListForPlayer(ctx context.Context, playerID string, limit int) ([]models.Deposit, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []models.Deposit
	err := s.db.WithContext(ctx).Where("player_id = ?", playerID).Order("created_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	return out, nil
}

type DepositFilter struct {
	Status   models.PaymentStatus
	PlayerID string
	Limit    int
	Offset   int
}

func (s *DepositService) List(ctx context.Context, filter DepositFilter) ([]models.Deposit, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	q := s.db.WithContext(ctx).Model(&models.Deposit{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PlayerID != "" {
		q = q.Where("player_id = ?", filter.PlayerID)
	}

	var out []models.Deposit
	if err := q.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	return out, nil
}
