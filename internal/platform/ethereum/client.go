// Package ethereum talks to an Ethereum node about the WRG token: balances, gas
// price and unsigned transfer transactions. It never holds private keys.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/currency"
)

var (
	transferSelector  = crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]
)

// ErrInvalidAddress is returned for strings that are not 20-byte hex addresses
var ErrInvalidAddress = errors.New("invalid ethereum address")

// ChainReader is the subset of ethclient.Client used by TokenClient
type ChainReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	CallContract(ctx context.Context, call goethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

var _ ChainReader = (*ethclient.Client)(nil)

// Dial connects to the node configured in cfg
func Dial(ctx context.Context, logger *slog.Logger, cfg *config.EthereumConfig) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum node: %w", err)
	}
	logger.Info("Connected to Ethereum node", "rpc_url", cfg.RPCURL)
	return client, nil
}

// MasterStats describes the platform master account
type MasterStats struct {
	ETHBalance decimal.Decimal // ether
	WRGBalance decimal.Decimal // WRG
	GasPrice   decimal.Decimal // gwei
}

// TokenClient reads WRG token state and builds unsigned token transfers
type TokenClient struct {
	chain    ChainReader
	token    common.Address
	master   common.Address
	gasLimit uint64
	logger   *slog.Logger
}

func NewTokenClient(logger *slog.Logger, chain ChainReader, cfg *config.EthereumConfig) *TokenClient {
	return &TokenClient{
		chain:    chain,
		token:    common.HexToAddress(cfg.TokenAddress),
		master:   common.HexToAddress(cfg.MasterAddress),
		gasLimit: cfg.GasLimit,
		logger:   logger,
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// BalanceOf returns the raw token balance of wallet
func (c *TokenClient) BalanceOf(ctx context.Context, wallet string) (*big.Int, error) {
	addr, err := parseAddress(wallet)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 4+32)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(addr.Bytes(), 32)...)

	out, err := c.chain.CallContract(ctx, goethereum.CallMsg{To: &c.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call token balanceOf: %w", err)
	}
	if len(out) == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(out), nil
}

// BuildTransfer returns the 0x-prefixed RLP of an unsigned ERC-20 transfer from
// origin to dest of amount token minor units.
func (c *TokenClient) BuildTransfer(ctx context.Context, origin, dest string, amount int64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	from, err := parseAddress(origin)
	if err != nil {
		return "", err
	}
	to, err := parseAddress(dest)
	if err != nil {
		return "", err
	}

	nonce, err := c.chain.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to get pending nonce: %w", err)
	}
	gasPrice, err := c.chain.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to suggest gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      c.gasLimit,
		To:       &c.token,
		Value:    big.NewInt(0),
		Data:     transferCallData(to, big.NewInt(amount)),
	})

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction: %w", err)
	}

	c.logger.Debug("Built unsigned token transfer",
		"from", from.Hex(),
		"to", to.Hex(),
		"amount", amount,
		"nonce", nonce)

	return hexutil.Encode(raw), nil
}

func transferCallData(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+64)
	data = append(data, transferSelector...)
	data = append(data, common.LeftPadBytes(to.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data
}

// MasterStats reads the master account's ETH and WRG balances and the current gas price
func (c *TokenClient) MasterStats(ctx context.Context) (*MasterStats, error) {
	wei, err := c.chain.BalanceAt(ctx, c.master, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get master ether balance: %w", err)
	}

	wrg, err := c.BalanceOf(ctx, c.master.Hex())
	if err != nil {
		return nil, err
	}

	gasPrice, err := c.chain.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	return &MasterStats{
		ETHBalance: decimal.NewFromBigInt(wei, -currency.ETHPrecision),
		WRGBalance: decimal.NewFromBigInt(wrg, -currency.WRGPrecision),
		GasPrice:   decimal.NewFromBigInt(gasPrice, -9),
	}, nil
}
