package bankroll

import (
	"time"

	"github.com/oddsline/vigor/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request to open a bankroll account
type CreateAccountRequest struct {
	UserID         uuid.UUID        `json:"user_id" binding:"required"`
	StartingAmount *decimal.Decimal `json:"starting_amount,omitempty"`
}

// DepositRequest represents the request to add funds to the bankroll
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// WithdrawRequest represents the request to take funds out of the bankroll
type WithdrawRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// UpdatePolicyRequest updates the staking policy fields; nil fields are left
// unchanged.
type UpdatePolicyRequest struct {
	KellyFraction *decimal.Decimal `json:"kelly_fraction,omitempty"`
	MaxBetPercent *decimal.Decimal `json:"max_bet_percent,omitempty"`
	MinEdge       *decimal.Decimal `json:"min_edge,omitempty"`
}

// AccountResponse represents a bankroll account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	CurrentAmount  decimal.Decimal `json:"current_amount"`
	StartingAmount decimal.Decimal `json:"starting_amount"`
	KellyFraction  decimal.Decimal `json:"kelly_fraction"`
	MaxBetPercent  decimal.Decimal `json:"max_bet_percent"`
	MinEdge        decimal.Decimal `json:"min_edge"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StatusResponse is the bankroll summary: live balance, what is still at
// risk on pending bets, and lifetime movement totals.
type StatusResponse struct {
	UserID            uuid.UUID       `json:"user_id"`
	AccountID         uuid.UUID       `json:"account_id"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	PendingExposure   decimal.Decimal `json:"pending_exposure"`
	AvailableBalance  decimal.Decimal `json:"available_balance"`
	StartingBalance   decimal.Decimal `json:"starting_balance"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals  decimal.Decimal `json:"total_withdrawals"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	AccountID     uuid.UUID              `json:"account_id"`
	Type          models.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	BalanceBefore decimal.Decimal        `json:"balance_before"`
	BalanceAfter  decimal.Decimal        `json:"balance_after"`
	BetID         *uuid.UUID             `json:"bet_id,omitempty"`
	Description   string                 `json:"description"`
	CreatedAt     time.Time              `json:"created_at"`
}

// OperationResponse represents the response for balance-changing operations
type OperationResponse struct {
	Account     *AccountResponse     `json:"account"`
	Transaction *TransactionResponse `json:"transaction"`
}

// AuditResponse reports whether the ledger reconciles with the live balance.
// The audit only observes; a drift is never corrected here.
type AuditResponse struct {
	UserID           uuid.UUID       `json:"user_id"`
	AccountID        uuid.UUID       `json:"account_id"`
	StartingBalance  decimal.Decimal `json:"starting_balance"`
	LedgerSum        decimal.Decimal `json:"ledger_sum"`
	ExpectedBalance  decimal.Decimal `json:"expected_balance"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	Drift            decimal.Decimal `json:"drift"`
	TransactionCount int64           `json:"transaction_count"`
	Consistent       bool            `json:"consistent"`
}

// ToAccountResponse converts a models.BankrollAccount to AccountResponse
func ToAccountResponse(account *models.BankrollAccount) *AccountResponse {
	return &AccountResponse{
		ID:             account.ID,
		UserID:         account.UserID,
		CurrentAmount:  account.CurrentAmount,
		StartingAmount: account.StartingAmount,
		KellyFraction:  account.KellyFraction,
		MaxBetPercent:  account.MaxBetPercent,
		MinEdge:        account.MinEdge,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

// ToTransactionResponse converts a models.BankrollTransaction to TransactionResponse
func ToTransactionResponse(transaction *models.BankrollTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            transaction.ID,
		UserID:        transaction.UserID,
		AccountID:     transaction.AccountID,
		Type:          transaction.Type,
		Amount:        transaction.Amount,
		BalanceBefore: transaction.BalanceBefore,
		BalanceAfter:  transaction.BalanceAfter,
		BetID:         transaction.BetID,
		Description:   transaction.Description,
		CreatedAt:     transaction.CreatedAt,
	}
}
