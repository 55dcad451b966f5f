package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankrollAccount is the single bankroll a user stakes from. Every change to
// CurrentAmount must be paired with a BankrollTransaction row; the ledger is
// the source of truth and the account is its running total.
type BankrollAccount struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bankroll_accounts_user" json:"user_id"`
	CurrentAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:1000.00" json:"current_amount"`
	StartingAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:1000.00;check:starting_amount > 0" json:"starting_amount"`

	// Staking policy used by the analysis endpoints.
	KellyFraction decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.25" json:"kelly_fraction"`
	MaxBetPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:5.00" json:"max_bet_percent"`
	MinEdge       decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.02" json:"min_edge"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Transactions []BankrollTransaction `gorm:"foreignKey:AccountID" json:"-"`
}

// DefaultStartingAmount is the bankroll assigned on signup.
var DefaultStartingAmount = decimal.NewFromInt(1000)

// TableName specifies the table name for the BankrollAccount model
func (*BankrollAccount) TableName() string {
	return "bankroll_accounts"
}

// BeforeCreate sets up the model before creation
func (a *BankrollAccount) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Apply adds a signed settlement delta to the balance. Losses may drive the
// balance negative; only withdrawals are gated on available funds.
func (a *BankrollAccount) Apply(delta decimal.Decimal) {
	a.CurrentAmount = a.CurrentAmount.Add(delta)
}

// CanWithdraw reports whether the balance covers a withdrawal of amount.
func (a *BankrollAccount) CanWithdraw(amount decimal.Decimal) bool {
	return a.CurrentAmount.GreaterThanOrEqual(amount)
}

// ProfitLoss returns lifetime profit relative to the starting amount.
func (a *BankrollAccount) ProfitLoss() decimal.Decimal {
	return a.CurrentAmount.Sub(a.StartingAmount)
}

// ProfitLossPercent returns lifetime profit as a percentage of the baseline.
func (a *BankrollAccount) ProfitLossPercent() decimal.Decimal {
	if a.StartingAmount.IsZero() {
		return decimal.Zero
	}
	return a.ProfitLoss().Div(a.StartingAmount).Mul(decimal.NewFromInt(100))
}

// Validate performs validation on the bankroll account model
func (a *BankrollAccount) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if a.StartingAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidStartingAmount
	}
	if a.KellyFraction.LessThanOrEqual(decimal.Zero) || a.KellyFraction.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidKellyFraction
	}
	if a.MaxBetPercent.LessThanOrEqual(decimal.Zero) || a.MaxBetPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidMaxBetPercent
	}
	return nil
}
