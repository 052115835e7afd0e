// Package ledger defines the categorized read projections over ledger accounts.
package ledger

import (
	"fmt"

	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// Kind selects which accounts a view lists
type Kind string

const (
	KindBalance    Kind = "Balance"
	KindEmission   Kind = "Emission"
	KindDonation   Kind = "Donation"
	KindPrePayment Kind = "PrePayment"
)

// ErrUnknownKind is returned for view kinds outside the known set
type ErrUnknownKind struct {
	Kind Kind
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown ledger view kind: %q", string(e.Kind))
}

// MutationKind returns the mutation kind a view filters on. Balance has none.
func (k Kind) MutationKind() (shared.MutationKind, bool) {
	switch k {
	case KindEmission:
		return shared.MutationKindEmission, true
	case KindDonation:
		return shared.MutationKindDonation, true
	case KindPrePayment:
		return shared.MutationKindPrePayment, true
	}
	return "", false
}

func (k Kind) Valid() bool {
	if k == KindBalance {
		return true
	}
	_, ok := k.MutationKind()
	return ok
}

// Entry is the shape shared by every account listing of the admin dashboard
type Entry struct {
	Kind       Kind   `json:"-"`
	WrioID     string `json:"wrioID"`
	Name       string `json:"name"`
	EthWallet  string `json:"ethWallet"`
	ETHBalance int64  `json:"ethBalance"`
	WRGBalance int64  `json:"wrgBalance"`
}

// EntryFromAccount projects an account into a view entry of the given kind
func EntryFromAccount(kind Kind, a *account.LedgerAccount) Entry {
	return Entry{
		Kind:       kind,
		WrioID:     a.WrioID,
		Name:       a.Name,
		EthWallet:  a.EthWallet,
		ETHBalance: a.ETHBalance,
		WRGBalance: a.WRGBalance,
	}
}
