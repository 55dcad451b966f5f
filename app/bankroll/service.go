package bankroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/models"
)

const statusCacheTTL = 30 * time.Second

// StatusCacheKey returns the cache key for a user's bankroll status. Exported
// so that other balance-changing code paths can invalidate it.
func StatusCacheKey(userID uuid.UUID) string {
	return "bankroll:status:" + userID.String()
}

type Service interface {
	CreateAccount(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*StatusResponse, error)
	Deposit(ctx context.Context, userID uuid.UUID, req *DepositRequest) (*OperationResponse, error)
	Withdraw(ctx context.Context, userID uuid.UUID, req *WithdrawRequest) (*OperationResponse, error)
	UpdatePolicy(ctx context.Context, userID uuid.UUID, req *UpdatePolicyRequest) (*AccountResponse, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]TransactionResponse, error)
	Audit(ctx context.Context, userID uuid.UUID) (*AuditResponse, error)
}

type service struct {
	repo  Repository
	db    *gorm.DB
	cache cache.Cache[string]
}

func NewService(repo Repository, db *gorm.DB, c cache.Cache[string]) Service {
	return &service{
		repo:  repo,
		db:    db,
		cache: c,
	}
}

func (s *service) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.repo.GetAccountByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, models.ErrAccountAlreadyExists
	}

	starting := models.DefaultStartingAmount
	if req.StartingAmount != nil {
		starting = *req.StartingAmount
	}

	account := &models.BankrollAccount{
		UserID:         req.UserID,
		CurrentAmount:  starting,
		StartingAmount: starting,
		KellyFraction:  decimal.NewFromFloat(0.25),
		MaxBetPercent:  decimal.NewFromInt(5),
		MinEdge:        decimal.NewFromFloat(0.02),
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return ToAccountResponse(account), nil
}

func (s *service) GetStatus(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	cacheKey := StatusCacheKey(userID)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var status StatusResponse
		if err := json.Unmarshal([]byte(cached), &status); err == nil {
			return &status, nil
		}
	}

	account, err := s.repo.GetAccountByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	exposure, err := s.repo.GetPendingExposure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending exposure: %w", err)
	}

	deposits, err := s.repo.SumTransactionsByType(ctx, account.ID, models.TransactionTypeDeposit)
	if err != nil {
		return nil, fmt.Errorf("failed to sum deposits: %w", err)
	}
	withdrawals, err := s.repo.SumTransactionsByType(ctx, account.ID, models.TransactionTypeWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("failed to sum withdrawals: %w", err)
	}

	status := &StatusResponse{
		UserID:            account.UserID,
		AccountID:         account.ID,
		CurrentBalance:    account.CurrentAmount,
		PendingExposure:   exposure,
		AvailableBalance:  account.CurrentAmount.Sub(exposure),
		StartingBalance:   account.StartingAmount,
		ProfitLoss:        account.ProfitLoss(),
		ProfitLossPercent: account.ProfitLossPercent(),
		TotalDeposits:     deposits,
		// withdrawal amounts are stored negative
		TotalWithdrawals: withdrawals.Neg(),
	}

	if encoded, err := json.Marshal(status); err == nil {
		_ = s.cache.Set(ctx, cacheKey, string(encoded), statusCacheTTL)
	}

	return status, nil
}

func (s *service) Deposit(ctx context.Context, userID uuid.UUID, req *DepositRequest) (*OperationResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidTransactionAmount
	}

	result, err := s.executeAccountTransaction(func(txRepo Repository) (*OperationResponse, error) {
		account, err := txRepo.GetAccountByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrAccountNotFound
			}
			return nil, fmt.Errorf("failed to lock account: %w", err)
		}

		transaction := models.NewDepositTransaction(account.UserID, account.ID, req.Amount, account.CurrentAmount)
		if req.Description != "" {
			transaction.Description = req.Description
		}

		account.Apply(req.Amount)

		if err := txRepo.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
		if err := txRepo.CreateTransaction(ctx, transaction); err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}

		return &OperationResponse{
			Account:     ToAccountResponse(account),
			Transaction: ToTransactionResponse(transaction),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, StatusCacheKey(userID))
	return result, nil
}

func (s *service) Withdraw(ctx context.Context, userID uuid.UUID, req *WithdrawRequest) (*OperationResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidTransactionAmount
	}

	result, err := s.executeAccountTransaction(func(txRepo Repository) (*OperationResponse, error) {
		account, err := txRepo.GetAccountByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrAccountNotFound
			}
			return nil, fmt.Errorf("failed to lock account: %w", err)
		}

		if !account.CanWithdraw(req.Amount) {
			return nil, models.ErrInsufficientBalance
		}

		transaction := models.NewWithdrawalTransaction(account.UserID, account.ID, req.Amount, account.CurrentAmount)
		if req.Description != "" {
			transaction.Description = req.Description
		}

		account.Apply(req.Amount.Neg())

		if err := txRepo.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
		if err := txRepo.CreateTransaction(ctx, transaction); err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}

		return &OperationResponse{
			Account:     ToAccountResponse(account),
			Transaction: ToTransactionResponse(transaction),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, StatusCacheKey(userID))
	return result, nil
}

func (s *service) UpdatePolicy(ctx context.Context, userID uuid.UUID, req *UpdatePolicyRequest) (*AccountResponse, error) {
	account, err := s.repo.GetAccountByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if req.KellyFraction != nil {
		account.KellyFraction = *req.KellyFraction
	}
	if req.MaxBetPercent != nil {
		account.MaxBetPercent = *req.MaxBetPercent
	}
	if req.MinEdge != nil {
		account.MinEdge = *req.MinEdge
	}

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, StatusCacheKey(userID))
	return ToAccountResponse(account), nil
}

func (s *service) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]TransactionResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	transactions, err := s.repo.GetTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		transaction := transactions[i]
		responses[i] = *ToTransactionResponse(&transaction)
	}

	return responses, nil
}

// Audit checks the ledger invariant: current balance must equal the starting
// balance plus the sum of every ledger amount. A drift is reported alongside
// ErrConsistencyViolation and is never repaired here.
func (s *service) Audit(ctx context.Context, userID uuid.UUID) (*AuditResponse, error) {
	account, err := s.repo.GetAccountByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	ledgerSum, count, err := s.repo.SumTransactionAmounts(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}

	expected := account.StartingAmount.Add(ledgerSum)
	drift := account.CurrentAmount.Sub(expected)

	report := &AuditResponse{
		UserID:           account.UserID,
		AccountID:        account.ID,
		StartingBalance:  account.StartingAmount,
		LedgerSum:        ledgerSum,
		ExpectedBalance:  expected,
		CurrentBalance:   account.CurrentAmount,
		Drift:            drift,
		TransactionCount: count,
		Consistent:       drift.IsZero(),
	}

	if !report.Consistent {
		return report, models.ErrConsistencyViolation
	}
	return report, nil
}

// executeAccountTransaction wraps a balance-changing operation in a database
// transaction so the account write and ledger append commit together.
func (s *service) executeAccountTransaction(operation func(Repository) (*OperationResponse, error)) (*OperationResponse, error) {
	var result *OperationResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		var err error
		result, err = operation(txRepo)
		return err
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}
