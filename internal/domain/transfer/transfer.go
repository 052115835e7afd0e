// Package transfer holds unsigned token transfers waiting for the client to sign them.
package transfer

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// IDLength is the length of a transfer identifier in hexadecimal characters
const IDLength = 24

// PendingTransfer is an unsigned ERC-20 transfer built for the origin account.
// It is written once and never changed by this service.
type PendingTransfer struct {
	ID           string    `json:"id"`
	UnsignedTx   string    `json:"tx"` // 0x-prefixed RLP of the unsigned transaction
	DestWrioID   string    `json:"destWrioID"`
	DestWallet   string    `json:"to"`
	Amount       int64     `json:"amount"` // WRG minor units
	OriginWrioID string    `json:"originWrioID"`
	OriginWallet string    `json:"originWallet"`
	CreatedAt    time.Time `json:"created_at"`
}

// OwnedBy reports whether the identity is a party to the transfer
func (p *PendingTransfer) OwnedBy(wrioID string) bool {
	if wrioID == "" {
		return false
	}
	return p.OriginWrioID == wrioID || p.DestWrioID == wrioID
}

// ValidateID checks that id is a well formed transfer identifier
func ValidateID(id string) error {
	var details []string
	if id == "" {
		details = append(details, "id is required")
	} else {
		if len(id) != IDLength {
			details = append(details, fmt.Sprintf("id must be %d characters long", IDLength))
		}
		if _, err := hex.DecodeString(id); err != nil || strings.HasPrefix(id, "0x") {
			details = append(details, "id must be hexadecimal")
		}
	}

	if len(details) > 0 {
		return ErrInvalidID{ID: id, Details: details}
	}
	return nil
}

// Repository persists pending transfers
type Repository interface {
	Create(ctx context.Context, transfer *PendingTransfer) error
	GetByID(ctx context.Context, id string) (*PendingTransfer, error)
}

// ErrInvalidID indicates a malformed transfer identifier
type ErrInvalidID struct {
	ID      string
	Details []string
}

func (e ErrInvalidID) Error() string {
	return "invalid transfer id: " + strings.Join(e.Details, "; ")
}

// ErrTransferNotFound indicates missing transfer
type ErrTransferNotFound struct {
	ID string
}

func (e ErrTransferNotFound) Error() string {
	return "pending transfer not found: " + e.ID
}

// Is implements the errors.Is interface for ErrTransferNotFound
func (e ErrTransferNotFound) Is(target error) bool {
	t, ok := target.(ErrTransferNotFound)
	if !ok {
		return false
	}
	return t.ID == "" || t.ID == e.ID
}

// ErrForbidden indicates the requester is not a party to the transfer
type ErrForbidden struct {
	ID     string
	WrioID string
}

func (e ErrForbidden) Error() string {
	return fmt.Sprintf("identity %s may not access transfer %s", e.WrioID, e.ID)
}
