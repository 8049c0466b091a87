// Package evm implements the position manager and token collaborators on
// top of an Ethereum JSON-RPC endpoint.
package evm

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

const (
	eip1559FeeMultiplier = 2
	receiptPollInterval  = 3 * time.Second
	receiptWaitTimeout   = 2 * time.Minute
)

// Client wraps an Ethereum RPC client with the narrow surface the custody
// service needs.
type Client struct {
	url string
	eth *ethclient.Client
}

// Dial connects to the RPC node at url.
func Dial(url string) (*Client, error) {
	eth, err := ethclient.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RPC node")
	}

	return &Client{url: url, eth: eth}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.eth.Close()
}

// ChainID returns the chain ID reported by the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain id")
	}
	return id, nil
}

// CallContract executes a read-only contract call at the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	resp, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, errors.Wrap(err, "contract call failed")
	}
	return resp, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *Client) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}
	return nonce, nil
}

// EstimateGas estimates the gas needed for the given call.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}
	return gas, nil
}

// SuggestFees returns the EIP-1559 tip cap and fee cap, the latter derived
// as BaseFee * 2 + tip.
func (c *Client) SuggestFees(ctx context.Context) (tipCap, feeCap *big.Int, err error) {
	tipCap, err = c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to suggest gas tip cap")
	}

	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get latest header")
	}
	if head.BaseFee == nil {
		return nil, nil, errors.New("chain does not support EIP-1559 (baseFee is nil)")
	}

	feeCap = new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(eip1559FeeMultiplier)), tipCap)
	return tipCap, feeCap, nil
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}
	return nil
}

// WaitMined polls for the receipt of txHash until it is mined or the wait
// times out, and fails when the transaction reverted.
func (c *Client) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(receiptWaitTimeout)

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, errors.Errorf("transaction %v reverted", txHash.Hex())
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrap(err, "failed to get transaction receipt")
		}

		if time.Now().After(deadline) {
			return nil, errors.Errorf("timed out waiting for transaction %v", txHash.Hex())
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(receiptPollInterval):
		}
	}
}
