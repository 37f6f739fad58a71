package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"casino/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DefaultMinimumWithdrawal = decimal.RequireFromString("20.00")

type CreateWithdrawalRequest struct {
	PlayerID   string
	Amount     decimal.Decimal
	PixKey     string
	PixKeyType string
}

type WithdrawalFilter struct {
	Status   models.PaymentStatus
	PlayerID string
	Limit    int
	Offset   int
}

// WithdrawalService moves withdrawals from pending to completed or cancelled.
// The debit happens at request time; rejection refunds it in the same
// database transaction as the status change.
type WithdrawalService struct {
	db      *gorm.DB
	ledger  *BalanceLedger
	minimum decimal.Decimal
}

func NewWithdrawalService(db *gorm.DB, ledger *BalanceLedger, minimum decimal.Decimal) *WithdrawalService {
	return &WithdrawalService{db: db, ledger: ledger, minimum: minimum}
}

func (s *WithdrawalService) Minimum() decimal.Decimal {
	return s.minimum
}

func (s *WithdrawalService) Create(ctx context.Context, req CreateWithdrawalRequest) (models.Withdrawal, error) {
	if req.Amount.LessThan(s.minimum) {
		return models.Withdrawal{}, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, s.minimum.StringFixed(2))
	}
	if !req.Amount.IsPositive() || !req.Amount.Equal(req.Amount.Round(2)) {
		return models.Withdrawal{}, ErrInvalidAmount
	}
	pixKey := strings.TrimSpace(req.PixKey)
	if pixKey == "" {
		return models.Withdrawal{}, ErrInvalidDestination
	}

	w := models.Withdrawal{
		ID:         uuid.NewString(),
		PlayerID:   req.PlayerID,
		Amount:     req.Amount,
		Status:     models.StatusPending,
		PixKey:     pixKey,
		PixKeyType: strings.ToLower(strings.TrimSpace(req.PixKeyType)),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ledger.AdjustTx(tx, AdjustRequest{
			PlayerID:    req.PlayerID,
			Amount:      req.Amount.Neg(),
			Kind:        models.KindWithdrawal,
			ReferenceID: w.ID,
		}); err != nil {
			return err
		}
		if err := tx.Create(&w).Error; err != nil {
			return fmt.Errorf("create withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Withdrawal{}, err
	}

	return w, nil
}

// Approve records an external payout; the funds already left the balance.
func (s *WithdrawalService) Approve(ctx context.Context, id, approvedBy string) (models.Withdrawal, error) {
	return s.transition(ctx, id, func(tx *gorm.DB, w *models.Withdrawal) error {
		now := time.Now().UTC()
		w.Status = models.StatusCompleted
		w.ApprovedAt = &now
		if by := strings.TrimSpace(approvedBy); by != "" {
			w.ApprovedBy = &by
		}

		return tx.Model(w).Updates(map[string]any{
			"status":      w.Status,
			"approved_at": w.ApprovedAt,
			"approved_by": w.ApprovedBy,
		}).Error
	})
}

func (s *WithdrawalService) Reject(ctx context.Context, id, reason string) (models.Withdrawal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Withdrawal{}, ErrReasonRequired
	}

	return s.transition(ctx, id, func(tx *gorm.DB, w *models.Withdrawal) error {
		w.Status = models.StatusCancelled
		w.RejectedReason = &reason

		if err := tx.Model(w).Updates(map[string]any{
			"status":          w.Status,
			"rejected_reason": w.RejectedReason,
		}).Error; err != nil {
			return err
		}

		_, err := s.ledger.AdjustTx(tx, AdjustRequest{
			PlayerID:    w.PlayerID,
			Amount:      w.Amount,
			Kind:        models.KindRefund,
			ReferenceID: w.ID,
		})
		return err
	})
}

func (s *WithdrawalService) transition(ctx context.Context, id string, apply func(tx *gorm.DB, w *models.Withdrawal) error) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&w).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWithdrawalNotFound
		}
		if err != nil {
			return fmt.Errorf("lock withdrawal: %w", err)
		}
		if w.Status.Terminal() {
			return fmt.Errorf("%w: withdrawal is %s", ErrAlreadyTerminal, w.Status)
		}
		return apply(tx, &w)
	})
	if err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}

func (s *WithdrawalService) Get(ctx context.Context, id string) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Withdrawal{}, ErrWithdrawalNotFound
	}
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("load withdrawal: %w", err)
	}
	return w, nil
}

func (s *WithdrawalService) List(ctx context.Context, filter WithdrawalFilter) ([]models.Withdrawal, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	q := s.db.WithContext(ctx).Model(&models.Withdrawal{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PlayerID != "" {
		q = q.Where("player_id = ?", filter.PlayerID)
	}

	var out []models.Withdrawal
	if err := q.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return out, nil
}
