package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBankrollTransaction(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		tx := BankrollTransaction{}
		assert.Equal(t, "bankroll_transactions", tx.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		tx := BankrollTransaction{}
		err := tx.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, tx.ID)
	})

	t.Run("CreditDebit", func(t *testing.T) {
		credit := BankrollTransaction{Amount: decimal.NewFromInt(100)}
		assert.True(t, credit.IsCredit())
		assert.False(t, credit.IsDebit())

		debit := BankrollTransaction{Amount: decimal.NewFromInt(-50)}
		assert.True(t, debit.IsDebit())
		assert.False(t, debit.IsCredit())

		push := BankrollTransaction{Amount: decimal.Zero}
		assert.False(t, push.IsCredit())
		assert.False(t, push.IsDebit())
	})

	t.Run("IsBalanceConsistent", func(t *testing.T) {
		good := BankrollTransaction{
			Amount:        decimal.NewFromInt(-100),
			BalanceBefore: decimal.NewFromInt(1000),
			BalanceAfter:  decimal.NewFromInt(900),
		}
		assert.True(t, good.IsBalanceConsistent())

		bad := good
		bad.BalanceAfter = decimal.NewFromInt(950)
		assert.False(t, bad.IsBalanceConsistent())
	})

	t.Run("SettlementTransactionType", func(t *testing.T) {
		cases := []struct {
			outcome BetStatus
			txType  TransactionType
		}{
			{BetStatusWin, TransactionTypeBetWon},
			{BetStatusLoss, TransactionTypeBetLost},
			{BetStatusPush, TransactionTypeBetPushed},
		}
		for _, c := range cases {
			got, err := SettlementTransactionType(c.outcome)
			assert.NoError(t, err)
			assert.Equal(t, c.txType, got)
		}

		_, err := SettlementTransactionType(BetStatusPending)
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})

	t.Run("NewDepositTransaction", func(t *testing.T) {
		userID, accountID := uuid.New(), uuid.New()
		tx := NewDepositTransaction(userID, accountID, decimal.NewFromInt(200), decimal.NewFromInt(1000))

		assert.Equal(t, TransactionTypeDeposit, tx.Type)
		assert.True(t, decimal.NewFromInt(1200).Equal(tx.BalanceAfter))
		assert.True(t, tx.IsBalanceConsistent())
		assert.NoError(t, tx.Validate())
	})

	t.Run("NewWithdrawalTransaction", func(t *testing.T) {
		tx := NewWithdrawalTransaction(uuid.New(), uuid.New(), decimal.NewFromInt(300), decimal.NewFromInt(1000))

		assert.Equal(t, TransactionTypeWithdrawal, tx.Type)
		assert.True(t, decimal.NewFromInt(-300).Equal(tx.Amount))
		assert.True(t, decimal.NewFromInt(700).Equal(tx.BalanceAfter))
		assert.True(t, tx.IsBalanceConsistent())
	})

	t.Run("NewSettlementTransaction", func(t *testing.T) {
		betID := uuid.New()

		win, err := NewSettlementTransaction(uuid.New(), uuid.New(), betID,
			BetStatusWin, decimal.NewFromFloat(90.91), decimal.NewFromInt(1000))
		assert.NoError(t, err)
		assert.Equal(t, TransactionTypeBetWon, win.Type)
		assert.Equal(t, &betID, win.BetID)
		assert.True(t, decimal.NewFromFloat(1090.91).Equal(win.BalanceAfter))

		push, err := NewSettlementTransaction(uuid.New(), uuid.New(), betID,
			BetStatusPush, decimal.Zero, decimal.NewFromInt(1000))
		assert.NoError(t, err)
		assert.Equal(t, TransactionTypeBetPushed, push.Type)
		assert.True(t, push.BalanceBefore.Equal(push.BalanceAfter))

		_, err = NewSettlementTransaction(uuid.New(), uuid.New(), betID,
			BetStatusPending, decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})

	t.Run("ValidateRejectsUnknownType", func(t *testing.T) {
		tx := BankrollTransaction{
			UserID:    uuid.New(),
			AccountID: uuid.New(),
			Type:      TransactionType("bonus"),
		}
		assert.ErrorIs(t, tx.Validate(), ErrInvalidTransactionType)
	})

	t.Run("ValidateRequiresBetIDForSettlementEntries", func(t *testing.T) {
		for _, txType := range []TransactionType{
			TransactionTypeBetWon, TransactionTypeBetLost, TransactionTypeBetPushed,
		} {
			tx := BankrollTransaction{
				UserID:    uuid.New(),
				AccountID: uuid.New(),
				Type:      txType,
			}
			assert.ErrorIs(t, tx.Validate(), ErrInvalidBetID, string(txType))
		}
	})

	t.Run("NewRefundTransaction", func(t *testing.T) {
		tx := NewRefundTransaction(uuid.New(), uuid.New(),
			decimal.NewFromFloat(-90.91), decimal.NewFromFloat(1090.91),
			"reversal of deleted bet")

		assert.Equal(t, TransactionTypeRefund, tx.Type)
		assert.Nil(t, tx.BetID)
		assert.True(t, decimal.NewFromInt(1000).Equal(tx.BalanceAfter))
		assert.True(t, tx.IsBalanceConsistent())
		assert.NoError(t, tx.Validate())
	})
}
