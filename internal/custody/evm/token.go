package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/lp-custody/internal/custody"
)

// TokenSweeper implements custody.TokenTransferrer with plain ERC-20
// transfers out of the custodian hot wallet.
type TokenSweeper struct {
	client   *Client
	signer   *Signer
	gasLimit uint64
}

// NewTokenSweeper returns an on-chain token transferrer.
func NewTokenSweeper(client *Client, signer *Signer, gasLimit uint64) (*TokenSweeper, error) {
	if client == nil || signer == nil {
		return nil, errors.New("client and signer are required")
	}
	return &TokenSweeper{client: client, signer: signer, gasLimit: gasLimit}, nil
}

var _ custody.TokenTransferrer = (*TokenSweeper)(nil)

// Transfer implements custody.TokenTransferrer.
func (t *TokenSweeper) Transfer(ctx context.Context, token, to common.Address, amount *big.Int) error {
	data := packCall(erc20TransferMethodID, packAddress(to), packBig(amount))

	nonce, err := t.client.PendingNonceAt(ctx, t.signer.Address())
	if err != nil {
		return err
	}

	tipCap, feeCap, err := t.client.SuggestFees(ctx)
	if err != nil {
		return err
	}

	gasLimit, err := t.client.EstimateGas(ctx, ethereum.CallMsg{
		From: t.signer.Address(),
		To:   &token,
		Data: data,
	})
	if err != nil {
		log.Warn().Err(err).Uint64("fallback", t.gasLimit).Msg("Gas estimation failed, using fallback limit")
		gasLimit = t.gasLimit
	}

	tx, err := t.signer.SignTx(nonce, token, big.NewInt(0), gasLimit, tipCap, feeCap, data)
	if err != nil {
		return err
	}

	if err := t.client.SendTransaction(ctx, tx); err != nil {
		return err
	}

	if _, err := t.client.WaitMined(ctx, tx.Hash()); err != nil {
		return errors.Wrap(err, "token transfer failed")
	}

	return nil
}
