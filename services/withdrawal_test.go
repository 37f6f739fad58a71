package services

import (
	"context"
	"sync"
	"testing"

	"casino/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWithdrawals(t *testing.T) (*WithdrawalService, *BalanceLedger) {
	t.Helper()
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	return NewWithdrawalService(db, ledger, DefaultMinimumWithdrawal), ledger
}

func withdrawalCount(t *testing.T, svc *WithdrawalService, playerID string) int {
	t.Helper()
	list, err := svc.List(context.Background(), WithdrawalFilter{PlayerID: playerID})
	require.NoError(t, err)
	return len(list)
}

func TestWithdrawalRejectRefunds(t *testing.T) {
	svc, _ := newWithdrawals(t)
	player := newPlayer(t, svc.db, "100")
	ctx := context.Background()

	w, err := svc.Create(ctx, CreateWithdrawalRequest{PlayerID: player.ID, Amount: dec("30"), PixKey: "player@example.com", PixKeyType: "EMAIL"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, w.Status)
	assert.Equal(t, "email", w.PixKeyType)
	requireBalance(t, svc.db, player.ID, "70")

	rejected, err := svc.Reject(ctx, w.ID, "invalid pix")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, rejected.Status)
	require.NotNil(t, rejected.RejectedReason)
	assert.Equal(t, "invalid pix", *rejected.RejectedReason)
	requireBalance(t, svc.db, player.ID, "100")

	_, err = svc.Reject(ctx, w.ID, "again")
	require.ErrorIs(t, err, ErrAlreadyTerminal)
	_, err = svc.Approve(ctx, w.ID, "ops")
	require.ErrorIs(t, err, ErrAlreadyTerminal)
	requireBalance(t, svc.db, player.ID, "100")

	var refunds []models.Transaction
	require.NoError(t, svc.db.Where("kind = ? AND reference_id = ?", models.KindRefund, w.ID).Find(&refunds).Error)
	require.Len(t, refunds, 1)
	assert.True(t, dec("30").Equal(refunds[0].Amount))
}

func TestWithdrawalApproveKeepsDebit(t *testing.T) {
	svc, _ := newWithdrawals(t)
	player := newPlayer(t, svc.db, "100")
	ctx := context.Background()

	w, err := svc.Create(ctx, CreateWithdrawalRequest{PlayerID: player.ID, Amount: dec("40"), PixKey: "11999999999"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, w.ID, "ops@casino")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "ops@casino", *approved.ApprovedBy)
	requireBalance(t, svc.db, player.ID, "60")

	stored, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	_, err = svc.Reject(ctx, w.ID, "too late")
	require.ErrorIs(t, err, ErrAlreadyTerminal)
	requireBalance(t, svc.db, player.ID, "60")
}

func TestWithdrawalBelowMinimum(t *testing.T) {
	svc, ledger := newWithdrawals(t)
	player := newPlayer(t, svc.db, "50")
	ctx := context.Background()

	for _, amount := range []string{"15", "0", "19.99"} {
		_, err := svc.Create(ctx, CreateWithdrawalRequest{PlayerID: player.ID, Amount: dec(amount), PixKey: "key"})
		require.ErrorIs(t, err, ErrBelowMinimum, amount)
	}

	requireBalance(t, svc.db, player.ID, "50")
	assert.Zero(t, withdrawalCount(t, svc, player.ID))
	history, err := ledger.History(ctx, player.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestWithdrawalCreateFailures(t *testing.T) {
	svc, _ := newWithdrawals(t)
	player := newPlayer(t, svc.db, "50")
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateWithdrawalRequest{PlayerID: player.ID, Amount: dec("50.01"), PixKey: "key"})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = svc.Create(ctx, CreateWithdrawalRequest{PlayerID: player.ID, Amount: dec("20"), PixKey: "  "})
	require.ErrorIs(t, err, ErrInvalidDestination)

	_, err = svc.Create(ctx, CreateWithdrawalRequest{PlayerID: "nobody", Amount: dec("20"), PixKey: "key"})
	require.ErrorIs(t, err, ErrPlayerNotFound)

	requireBalance(t, svc.db, player.ID, "50")
	assert.Zero(t, withdrawalCount(t, svc, player.ID))
}

func TestConcurrentWithdrawals(t *testing.T) {
	svc, _ := newWithdrawals(t)
	player := newPlayer(t, svc.db, "100")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateWithdrawalRequest{
				PlayerID: player.ID,
				Amount:   dec("60"),
				PixKey:   "key",
			})
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, failures)
	requireBalance(t, svc.db, player.ID, "40")

	pending, err := svc.List(context.Background(), WithdrawalFilter{Status: models.StatusPending, PlayerID: player.ID})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestWithdrawalTransitionErrors(t *testing.T) {
	svc, _ := newWithdrawals(t)
	player := newPlayer(t, svc.db, "100")
	ctx := context.Background()

	_, err := svc.Approve(ctx, "missing", "ops")
	require.ErrorIs(t, err, ErrWithdrawalNotFound)
	_, err = svc.Reject(ctx, "missing", "reason")
	require.ErrorIs(t, err, ErrWithdrawalNotFound)

	w, err := svc.Create(ctx, CreateWithdrawalRequest{PlayerID: player.ID, Amount: dec("25"), PixKey: "key"})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, w.ID, "   ")
	require.ErrorIs(t, err, ErrReasonRequired)

	stored, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	requireBalance(t, svc.db, player.ID, "75")
}
