package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// numeric renders a decimal as a JSON number without losing precision
func numeric(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func optionalNumeric(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := numeric(*d)
	return &n
}

// MasterStatsResponse describes the platform master account
type MasterStatsResponse struct {
	ETHBalance json.Number `json:"ethBalance"`
	WRGBalance json.Number `json:"wrgBalance"`
	GasPrice   json.Number `json:"gasPrice"`
}

// EtherFeedResponse is one row of the ether feed log
type EtherFeedResponse struct {
	Amount        int64       `json:"amount"`
	EthAccount    string      `json:"eth_account"`
	Timestamp     time.Time   `json:"timestamp"`
	DisplayAmount json.Number `json:"display_amount"`
}

// SignTxResponse is what the client needs to sign a pending transfer
type SignTxResponse struct {
	Tx     string `json:"tx"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	WrioID string `json:"wrioID"`
	EthID  string `json:"ethID"`
}

// CreateTransferRequest asks for an unsigned transfer to another account
type CreateTransferRequest struct {
	To     string `json:"to" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// TransferResponse represents a created pending transfer
type TransferResponse struct {
	ID     string `json:"id"`
	Tx     string `json:"tx"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// FundsResponse is the add-funds page payload. Balance is null in the degraded form.
type FundsResponse struct {
	Username        string       `json:"username"`
	LoginURL        string       `json:"loginUrl"`
	Balance         *json.Number `json:"balance"`
	GrammPriceUSD   *json.Number `json:"grammPriceUSD,omitempty"`
	BTCToWRGRate    *json.Number `json:"btcToWrgRate,omitempty"`
	BTCExchangeRate *json.Number `json:"btcExchangeRate,omitempty"`
	ExchangeRate    json.Number  `json:"exchangeRate"`
}

// UserResponse wraps the caller identity together with its ledger account
type UserResponse struct {
	User UserInfo `json:"user"`
}

type UserInfo struct {
	WrioID     string `json:"wrioID"`
	Name       string `json:"name"`
	Admin      bool   `json:"admin"`
	EthWallet  string `json:"ethWallet"`
	WRGBalance int64  `json:"wrgBalance"`
	ETHBalance int64  `json:"ethBalance"`
}

// CreateWalletRequest binds an Ethereum address to the caller's account
type CreateWalletRequest struct {
	EthWallet string `json:"ethWallet" binding:"required,ethaddr"`
}

func numericFixed(d decimal.Decimal, places int32) json.Number {
	return json.Number(d.StringFixed(places))
}

// TransactionResponse is one entry of the caller's transaction history
type TransactionResponse struct {
	MutationID    string      `json:"mutationID"`
	Kind          string      `json:"kind"`
	WRGDelta      int64       `json:"wrgDelta"`
	WRGAmount     json.Number `json:"wrgAmount"`
	ETHDelta      int64       `json:"ethDelta"`
	EthAccount    string      `json:"ethAccount,omitempty"`
	Status        string      `json:"status"`
	FailureReason string      `json:"failureReason,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}
