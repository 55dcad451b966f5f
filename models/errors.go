package models

import "errors"

var (
	ErrInvalidUserID  = errors.New("invalid user ID")
	ErrInvalidBetID   = errors.New("invalid bet ID")
	ErrInvalidEventID = errors.New("invalid event ID")
	ErrInvalidSideKey = errors.New("invalid side key")

	ErrInvalidStake      = errors.New("invalid stake amount")
	ErrInvalidOdds       = errors.New("odds cannot be zero")
	ErrInvalidBetStatus  = errors.New("invalid bet status")
	ErrInvalidOutcome    = errors.New("outcome must be win, loss or push")
	ErrBetAlreadySettled = errors.New("bet is already settled")

	ErrInvalidAccountID      = errors.New("invalid account ID")
	ErrAccountNotFound       = errors.New("bankroll account not found")
	ErrAccountAlreadyExists  = errors.New("bankroll account already exists for user")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInvalidStartingAmount = errors.New("starting amount must be positive")
	ErrInvalidKellyFraction  = errors.New("kelly fraction must be in (0, 1]")
	ErrInvalidMaxBetPercent  = errors.New("max bet percent must be in (0, 100]")

	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")
	ErrInconsistentBalance      = errors.New("transaction balance snapshot is inconsistent")

	ErrConcurrentModification = errors.New("could not acquire lock within timeout")
	ErrConsistencyViolation   = errors.New("ledger does not reconcile with account balance")

	ErrInvalidActualReturn = errors.New("actual return cannot be negative")
	ErrEventNotFinal       = errors.New("event has no final score yet")
	ErrUnresolvableMarket  = errors.New("market cannot be resolved automatically")

	ErrInvalidLockTimeout    = errors.New("lock timeout must be positive")
	ErrInvalidSweepBatchSize = errors.New("sweep batch size must be positive")
	ErrInvalidRetryPolicy    = errors.New("retry policy must have non-negative retries and backoff")

	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
	ErrInvalidBankroll    = errors.New("bankroll cannot be negative")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")

	ErrRecordNotFound = errors.New("record not found")
)
