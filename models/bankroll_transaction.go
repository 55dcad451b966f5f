package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType represents the type of ledger entry
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeBetWon     TransactionType = "bet_won"
	TransactionTypeBetLost    TransactionType = "bet_lost"
	TransactionTypeBetPushed  TransactionType = "bet_pushed"
	TransactionTypeRefund     TransactionType = "refund"
)

// SettlementTransactionType maps a terminal bet outcome to the ledger entry
// type recorded for it.
func SettlementTransactionType(outcome BetStatus) (TransactionType, error) {
	switch outcome {
	case BetStatusWin:
		return TransactionTypeBetWon, nil
	case BetStatusLoss:
		return TransactionTypeBetLost, nil
	case BetStatusPush:
		return TransactionTypeBetPushed, nil
	default:
		return "", ErrInvalidOutcome
	}
}

// BankrollTransaction is an immutable ledger entry. Amount is the signed
// delta applied to the account; BalanceBefore/BalanceAfter snapshot the
// balance around it. Rows are never updated or deleted under normal
// operation; bet-linked rows cascade only on explicit user data deletion.
type BankrollTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_bankroll_transactions_user" json:"user_id"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_bankroll_transactions_account" json:"account_id"`
	Type          TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance_after"`
	BetID         *uuid.UUID      `gorm:"type:uuid;index:idx_bankroll_transactions_bet" json:"bet_id,omitempty"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index:idx_bankroll_transactions_created_at" json:"created_at"`

	Account *BankrollAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Bet     *Bet             `gorm:"foreignKey:BetID;constraint:OnDelete:SET NULL" json:"bet,omitempty"`
}

// TableName specifies the table name for the BankrollTransaction model
func (*BankrollTransaction) TableName() string {
	return "bankroll_transactions"
}

// BeforeCreate sets up the model before creation
func (t *BankrollTransaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsCredit checks if this entry increased the balance
func (t *BankrollTransaction) IsCredit() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// IsDebit checks if this entry decreased the balance
func (t *BankrollTransaction) IsDebit() bool {
	return t.Amount.LessThan(decimal.Zero)
}

// IsBalanceConsistent checks that the snapshot pair matches the delta.
func (t *BankrollTransaction) IsBalanceConsistent() bool {
	return t.BalanceBefore.Add(t.Amount).Equal(t.BalanceAfter)
}

// Validate performs validation on the transaction model
func (t *BankrollTransaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if t.AccountID == uuid.Nil {
		return ErrInvalidAccountID
	}
	switch t.Type {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeBetWon,
		TransactionTypeBetLost, TransactionTypeBetPushed, TransactionTypeRefund:
	default:
		return ErrInvalidTransactionType
	}
	switch t.Type {
	case TransactionTypeBetWon, TransactionTypeBetLost, TransactionTypeBetPushed:
		// settlement entries must point at the bet that produced them
		if t.BetID == nil {
			return ErrInvalidBetID
		}
	}
	if !t.IsBalanceConsistent() {
		return ErrInconsistentBalance
	}
	return nil
}

// NewDepositTransaction creates a deposit ledger entry
func NewDepositTransaction(userID, accountID uuid.UUID, amount, balanceBefore decimal.Decimal) *BankrollTransaction {
	return &BankrollTransaction{
		UserID:        userID,
		AccountID:     accountID,
		Type:          TransactionTypeDeposit,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(amount),
		Description:   "Deposit to bankroll",
	}
}

// NewWithdrawalTransaction creates a withdrawal ledger entry
func NewWithdrawalTransaction(userID, accountID uuid.UUID, amount, balanceBefore decimal.Decimal) *BankrollTransaction {
	return &BankrollTransaction{
		UserID:        userID,
		AccountID:     accountID,
		Type:          TransactionTypeWithdrawal,
		Amount:        amount.Neg(),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Sub(amount),
		Description:   "Withdrawal from bankroll",
	}
}

// NewSettlementTransaction creates the ledger entry for a settled bet.
// The amount is the bet's signed profit/loss, zero for a push.
func NewSettlementTransaction(userID, accountID, betID uuid.UUID,
	outcome BetStatus,
	profit, balanceBefore decimal.Decimal) (*BankrollTransaction, error) {
	txType, err := SettlementTransactionType(outcome)
	if err != nil {
		return nil, err
	}
	return &BankrollTransaction{
		UserID:        userID,
		AccountID:     accountID,
		Type:          txType,
		Amount:        profit,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(profit),
		BetID:         &betID,
		Description:   "Bet settlement",
	}, nil
}

// NewRefundTransaction creates a reversing entry used when a settled bet is
// removed by explicit user data deletion.
func NewRefundTransaction(userID, accountID uuid.UUID, amount, balanceBefore decimal.Decimal, description string) *BankrollTransaction {
	return &BankrollTransaction{
		UserID:        userID,
		AccountID:     accountID,
		Type:          TransactionTypeRefund,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(amount),
		Description:   description,
	}
}
