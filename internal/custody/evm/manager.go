package evm

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/lp-custody/internal/custody"
)

// Manager implements custody.PositionManager against an on-chain
// nonfungible position manager deployment. Mutating calls are simulated
// with eth_call first to obtain their return values, then submitted as
// transactions and awaited.
type Manager struct {
	client   *Client
	signer   *Signer
	address  common.Address
	gasLimit uint64

	mu         sync.Mutex
	lastTxHash string
}

// NewManager returns a manager bound to the contract at address.
// gasLimit is the fallback when estimation fails.
func NewManager(client *Client, signer *Signer, address common.Address, gasLimit uint64) (*Manager, error) {
	if client == nil || signer == nil {
		return nil, errors.New("client and signer are required")
	}
	if address == (common.Address{}) {
		return nil, custody.ErrInvalidPositionManager
	}

	return &Manager{
		client:   client,
		signer:   signer,
		address:  address,
		gasLimit: gasLimit,
	}, nil
}

// Address implements custody.PositionManager.
func (m *Manager) Address() common.Address {
	return m.address
}

// LastTxHash implements custody.TxHashProvider.
func (m *Manager) LastTxHash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTxHash
}

// Positions implements custody.PositionManager.
func (m *Manager) Positions(ctx context.Context, positionID *big.Int) (*custody.Position, error) {
	resp, err := m.call(ctx, packCall(positionsMethodID, packBig(positionID)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query position")
	}
	if len(resp) < positionsWordCount*wordLength {
		return nil, errors.Errorf("malformed positions response of %d bytes", len(resp))
	}

	token0, err := wordAddress(resp, positionsWordToken0)
	if err != nil {
		return nil, err
	}
	token1, err := wordAddress(resp, positionsWordToken1)
	if err != nil {
		return nil, err
	}
	liquidity, err := wordBig(resp, positionsWordLiquidity)
	if err != nil {
		return nil, err
	}
	owed0, err := wordBig(resp, positionsWordTokensOwed0)
	if err != nil {
		return nil, err
	}
	owed1, err := wordBig(resp, positionsWordTokensOwed1)
	if err != nil {
		return nil, err
	}

	return &custody.Position{
		Token0:      token0,
		Token1:      token1,
		Liquidity:   liquidity,
		TokensOwed0: owed0,
		TokensOwed1: owed1,
	}, nil
}

// OwnerOf implements custody.PositionManager.
func (m *Manager) OwnerOf(ctx context.Context, positionID *big.Int) (common.Address, error) {
	resp, err := m.call(ctx, packCall(ownerOfMethodID, packBig(positionID)))
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to query position owner")
	}
	return wordAddress(resp, 0)
}

// TransferCustody implements custody.PositionManager. On-chain the receiver
// acknowledgment is enforced by the contract's safe transfer itself.
func (m *Manager) TransferCustody(ctx context.Context, from, to common.Address, positionID *big.Int) error {
	data := packCall(safeTransferFromMethodID, packAddress(from), packAddress(to), packBig(positionID))
	if _, err := m.execute(ctx, data); err != nil {
		return errors.Wrap(err, "failed to transfer position custody")
	}
	return nil
}

// DecreaseLiquidity implements custody.PositionManager.
func (m *Manager) DecreaseLiquidity(ctx context.Context, positionID, liquidity, amountMin0, amountMin1 *big.Int, deadline time.Time) (*big.Int, *big.Int, error) {
	// The params struct is fully static, so the tuple encodes as five
	// consecutive words.
	data := packCall(decreaseLiquidityMethodID,
		packBig(positionID),
		packBig(liquidity),
		packBig(amountMin0),
		packBig(amountMin1),
		packBig(big.NewInt(deadline.Unix())),
	)

	amount0, amount1, err := m.simulateAmounts(ctx, data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decrease liquidity simulation failed")
	}

	if _, err := m.execute(ctx, data); err != nil {
		return nil, nil, errors.Wrap(err, "failed to decrease liquidity")
	}

	return amount0, amount1, nil
}

// CollectProceeds implements custody.PositionManager.
func (m *Manager) CollectProceeds(ctx context.Context, positionID *big.Int, recipient common.Address, max0, max1 *big.Int) (*big.Int, *big.Int, error) {
	data := packCall(collectMethodID,
		packBig(positionID),
		packAddress(recipient),
		packBig(max0),
		packBig(max1),
	)

	amount0, amount1, err := m.simulateAmounts(ctx, data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "collect simulation failed")
	}

	if _, err := m.execute(ctx, data); err != nil {
		return nil, nil, errors.Wrap(err, "failed to collect proceeds")
	}

	return amount0, amount1, nil
}

func (m *Manager) call(ctx context.Context, data []byte) ([]byte, error) {
	return m.client.CallContract(ctx, ethereum.CallMsg{
		From: m.signer.Address(),
		To:   &m.address,
		Data: data,
	})
}

// simulateAmounts eth_calls a mutating method returning (uint256,uint256)
// to learn its return values before submitting the real transaction.
func (m *Manager) simulateAmounts(ctx context.Context, data []byte) (*big.Int, *big.Int, error) {
	resp, err := m.call(ctx, data)
	if err != nil {
		return nil, nil, err
	}

	amount0, err := wordBig(resp, 0)
	if err != nil {
		return nil, nil, err
	}
	amount1, err := wordBig(resp, 1)
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

func (m *Manager) execute(ctx context.Context, data []byte) (common.Hash, error) {
	nonce, err := m.client.PendingNonceAt(ctx, m.signer.Address())
	if err != nil {
		return common.Hash{}, err
	}

	tipCap, feeCap, err := m.client.SuggestFees(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	gasLimit, err := m.client.EstimateGas(ctx, ethereum.CallMsg{
		From: m.signer.Address(),
		To:   &m.address,
		Data: data,
	})
	if err != nil {
		log.Warn().Err(err).Uint64("fallback", m.gasLimit).Msg("Gas estimation failed, using fallback limit")
		gasLimit = m.gasLimit
	}

	tx, err := m.signer.SignTx(nonce, m.address, big.NewInt(0), gasLimit, tipCap, feeCap, data)
	if err != nil {
		return common.Hash{}, err
	}

	if err := m.client.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, err
	}

	if _, err := m.client.WaitMined(ctx, tx.Hash()); err != nil {
		return common.Hash{}, err
	}

	m.mu.Lock()
	m.lastTxHash = tx.Hash().Hex()
	m.mu.Unlock()

	return tx.Hash(), nil
}
