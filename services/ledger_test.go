package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"casino/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustRecordsSnapshots(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "100")

	txn, err := ledger.Adjust(context.Background(), AdjustRequest{
		PlayerID:    player.ID,
		Amount:      dec("-30.50"),
		Kind:        models.KindBet,
		ReferenceID: "round-1",
		GameCode:    "vs20olympgate",
		Metadata:    map[string]any{"round_id": "r1"},
	})
	require.NoError(t, err)

	assert.True(t, dec("100").Equal(txn.BalanceBefore))
	assert.True(t, dec("69.50").Equal(txn.BalanceAfter))
	assert.Equal(t, models.TransactionCompleted, txn.Status)
	require.NotNil(t, txn.ReferenceID)
	assert.Equal(t, "round-1", *txn.ReferenceID)
	require.NotNil(t, txn.GameCode)
	assert.JSONEq(t, `{"round_id":"r1"}`, string(txn.Metadata))
	requireBalance(t, db, player.ID, "69.50")
}

func TestAdjustRejectsOverdraft(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "50")

	_, err := ledger.Adjust(context.Background(), AdjustRequest{
		PlayerID: player.ID,
		Amount:   dec("-50.01"),
		Kind:     models.KindAdjustment,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	requireBalance(t, db, player.ID, "50")

	history, err := ledger.History(context.Background(), player.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1, "only the seed credit is recorded")

	_, err = ledger.Adjust(context.Background(), AdjustRequest{
		PlayerID: player.ID,
		Amount:   dec("-50"),
		Kind:     models.KindAdjustment,
	})
	require.NoError(t, err)
	requireBalance(t, db, player.ID, "0")
}

func TestAdjustValidation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "10")
	ctx := context.Background()

	tests := []struct {
		name string
		req  AdjustRequest
		want error
	}{
		{name: "zero amount", req: AdjustRequest{PlayerID: player.ID, Amount: decimal.Zero, Kind: models.KindBonus}, want: ErrInvalidAmount},
		{name: "sub-cent amount", req: AdjustRequest{PlayerID: player.ID, Amount: dec("0.001"), Kind: models.KindBonus}, want: ErrInvalidAmount},
		{name: "unknown kind", req: AdjustRequest{PlayerID: player.ID, Amount: dec("1"), Kind: "jackpot"}, want: ErrInvalidKind},
		{name: "unknown player", req: AdjustRequest{PlayerID: "missing", Amount: dec("1"), Kind: models.KindBonus}, want: ErrPlayerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Adjust(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	requireBalance(t, db, player.ID, "10")
}

func TestAdjustDuplicateReference(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "100")
	ctx := context.Background()

	req := AdjustRequest{PlayerID: player.ID, Amount: dec("-10"), Kind: models.KindBet, ReferenceID: "txn-1"}
	_, err := ledger.Adjust(ctx, req)
	require.NoError(t, err)

	_, err = ledger.Adjust(ctx, req)
	require.ErrorIs(t, err, ErrDuplicateReference)
	requireBalance(t, db, player.ID, "90")

	// Same reference under another kind is a different entry.
	_, err = ledger.Adjust(ctx, AdjustRequest{PlayerID: player.ID, Amount: dec("25"), Kind: models.KindWin, ReferenceID: "txn-1"})
	require.NoError(t, err)
	requireBalance(t, db, player.ID, "115")
}

func TestLedgerHistoryExplainsBalance(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "0")
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))

	kinds := []models.TransactionKind{models.KindDeposit, models.KindBet, models.KindWin, models.KindBonus, models.KindAdjustment}
	expected := decimal.Zero
	for range 200 {
		cents := rng.IntN(20000) - 8000
		if cents == 0 {
			continue
		}
		amount := decimal.New(int64(cents), -2)
		_, err := ledger.Adjust(ctx, AdjustRequest{
			PlayerID: player.ID,
			Amount:   amount,
			Kind:     kinds[rng.IntN(len(kinds))],
		})
		if err != nil {
			require.ErrorIs(t, err, ErrInsufficientFunds)
			require.True(t, expected.Add(amount).IsNegative())
			continue
		}
		expected = expected.Add(amount)
		require.False(t, expected.IsNegative())
	}

	requireBalance(t, db, player.ID, expected.String())

	var txns []models.Transaction
	require.NoError(t, db.Where("player_id = ?", player.ID).Find(&txns).Error)

	sum := decimal.Zero
	for _, txn := range txns {
		assert.True(t, txn.BalanceBefore.Add(txn.Amount).Equal(txn.BalanceAfter), "entry %s", txn.ID)
		assert.False(t, txn.BalanceAfter.IsNegative())
		sum = sum.Add(txn.Amount)
	}
	assert.True(t, expected.Equal(sum), "sum of amounts %s, balance %s", sum, expected)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "100")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Adjust(context.Background(), AdjustRequest{
				PlayerID: player.ID,
				Amount:   dec("-15"),
				Kind:     models.KindBet,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, succeeded)
	requireBalance(t, db, player.ID, "10")
}

func TestTransactionsAreAppendOnly(t *testing.T) {
	db := newTestDB(t)
	player := newPlayer(t, db, "10")

	var txn models.Transaction
	require.NoError(t, db.Where("player_id = ?", player.ID).First(&txn).Error)

	txn.Amount = dec("999")
	assert.ErrorIs(t, db.Save(&txn).Error, models.ErrImmutableTransaction)
	assert.ErrorIs(t, db.Delete(&txn).Error, models.ErrImmutableTransaction)
	requireBalance(t, db, player.ID, "10")
}

func TestHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ledger := NewBalanceLedger(db)
	player := newPlayer(t, db, "10")
	ctx := context.Background()

	_, err := ledger.Adjust(ctx, AdjustRequest{PlayerID: player.ID, Amount: dec("5"), Kind: models.KindBonus})
	require.NoError(t, err)

	history, err := ledger.History(ctx, player.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.KindBonus, history[0].Kind)
	assert.True(t, dec("15").Equal(history[0].BalanceAfter))
}
