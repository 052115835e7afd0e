package account

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Common errors
var (
	ErrInsufficientFunds     = errors.New("insufficient funds for mutation")
	ErrEmptyWrioID           = errors.New("wrio id cannot be empty")
	ErrInvalidWallet         = errors.New("wallet must be a hex encoded ethereum address")
	ErrWalletAlreadyAssigned = errors.New("wallet is already assigned to this account")
	ErrWalletInUse           = errors.New("wallet is already bound to another account")
	ErrNoWallet              = errors.New("account has no ethereum wallet")
)

// LedgerAccount is the per-identity balance record. Both balances are kept in minor units:
// WRG in hundredths of a token, ETH in the units scaled by the ether display divisor.
type LedgerAccount struct {
	WrioID     string    `json:"wrioID"`
	Name       string    `json:"name"`
	EthWallet  string    `json:"ethWallet"`
	WRGBalance int64     `json:"wrgBalance"`
	ETHBalance int64     `json:"ethBalance"`
	Version    int       `json:"version"` // For optimistic locking
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewLedgerAccount creates an empty account for an onboarded identity
func NewLedgerAccount(wrioID, name string) (*LedgerAccount, error) {
	if strings.TrimSpace(wrioID) == "" {
		return nil, ErrEmptyWrioID
	}

	now := time.Now()
	return &LedgerAccount{
		WrioID:    wrioID,
		Name:      name,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply adds the signed deltas to both balances. Neither balance may drop below zero;
// on failure the account is left untouched.
func (a *LedgerAccount) Apply(wrgDelta, ethDelta int64) error {
	if a.WRGBalance+wrgDelta < 0 || a.ETHBalance+ethDelta < 0 {
		return ErrInsufficientFunds
	}

	a.WRGBalance += wrgDelta
	a.ETHBalance += ethDelta
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// AssignWallet binds an Ethereum address to the account. The address is stored in
// checksum form and can never be replaced afterwards.
func (a *LedgerAccount) AssignWallet(wallet string) error {
	if !common.IsHexAddress(wallet) {
		return ErrInvalidWallet
	}
	if a.HasWallet() {
		return ErrWalletAlreadyAssigned
	}

	a.EthWallet = common.HexToAddress(wallet).Hex()
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

func (a *LedgerAccount) HasWallet() bool {
	return a.EthWallet != ""
}

// OwnsWallet compares addresses case-insensitively
func (a *LedgerAccount) OwnsWallet(wallet string) bool {
	return a.HasWallet() && strings.EqualFold(a.EthWallet, wallet)
}

// CanSpend checks if the account holds at least the given WRG amount
func (a *LedgerAccount) CanSpend(wrgAmount int64) bool {
	return a.WRGBalance >= wrgAmount
}
