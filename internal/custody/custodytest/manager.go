// Package custodytest provides in-process doubles for the external
// position manager and token contract, with scriptable behavior for
// exercising the orchestrator's failure paths.
package custodytest

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github/chapool/lp-custody/internal/custody"
)

// PositionState is the canonical state the double keeps per position.
type PositionState struct {
	Owner       common.Address
	Token0      common.Address
	Token1      common.Address
	Liquidity   *big.Int
	TokensOwed0 *big.Int
	TokensOwed1 *big.Int
}

type realized struct {
	amount0 *big.Int
	amount1 *big.Int
}

// Manager is an in-memory position manager implementing
// custody.PositionManager. Custody transfers dispatch the receiver hook the
// way the real custodian's safe transfer does.
type Manager struct {
	address common.Address

	// Hooks run before the corresponding operation, outside the state
	// lock; returning an error aborts the operation. Used to script
	// upstream failures and reentrant callbacks.
	BeforeTransfer func(from, to common.Address, positionID *big.Int) error
	BeforeDecrease func(positionID *big.Int) error
	BeforeCollect  func(positionID *big.Int) error

	// SkipBoundEnforcement disables the manager's own minimum checks so the
	// orchestrator's defense-in-depth slippage re-check can be exercised.
	SkipBoundEnforcement bool

	mu        sync.Mutex
	positions map[string]*PositionState
	receivers map[common.Address]custody.CustodyReceiver
	amounts   map[string]realized
	proceeds  map[common.Address]*realized
}

// NewManager returns a manager double with the given deployment address.
func NewManager(address common.Address) *Manager {
	return &Manager{
		address:   address,
		positions: make(map[string]*PositionState),
		receivers: make(map[common.Address]custody.CustodyReceiver),
		amounts:   make(map[string]realized),
		proceeds:  make(map[common.Address]*realized),
	}
}

// SeedPosition installs a position.
func (m *Manager) SeedPosition(positionID *big.Int, state PositionState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := state
	if stored.Liquidity == nil {
		stored.Liquidity = big.NewInt(0)
	}
	if stored.TokensOwed0 == nil {
		stored.TokensOwed0 = big.NewInt(0)
	}
	if stored.TokensOwed1 == nil {
		stored.TokensOwed1 = big.NewInt(0)
	}
	m.positions[positionID.String()] = &stored
}

// SetRealizedAmounts scripts what the next decrease on the position yields.
// Unscripted positions realize exactly the requested minimums.
func (m *Manager) SetRealizedAmounts(positionID, amount0, amount1 *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[positionID.String()] = realized{
		amount0: new(big.Int).Set(amount0),
		amount1: new(big.Int).Set(amount1),
	}
}

// RegisterReceiver attaches a custody receiver hook to an address, like an
// on-chain receiver contract.
func (m *Manager) RegisterReceiver(addr common.Address, receiver custody.CustodyReceiver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivers[addr] = receiver
}

// Proceeds returns the totals collected to the recipient so far.
func (m *Manager) Proceeds(recipient common.Address) (*big.Int, *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.proceeds[recipient]
	if !ok {
		return big.NewInt(0), big.NewInt(0)
	}
	return new(big.Int).Set(p.amount0), new(big.Int).Set(p.amount1)
}

// Address implements custody.PositionManager.
func (m *Manager) Address() common.Address {
	return m.address
}

// Positions implements custody.PositionManager.
func (m *Manager) Positions(_ context.Context, positionID *big.Int) (*custody.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.position(positionID)
	if err != nil {
		return nil, err
	}

	return &custody.Position{
		Token0:      state.Token0,
		Token1:      state.Token1,
		Liquidity:   new(big.Int).Set(state.Liquidity),
		TokensOwed0: new(big.Int).Set(state.TokensOwed0),
		TokensOwed1: new(big.Int).Set(state.TokensOwed1),
	}, nil
}

// OwnerOf implements custody.PositionManager.
func (m *Manager) OwnerOf(_ context.Context, positionID *big.Int) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.position(positionID)
	if err != nil {
		return common.Address{}, err
	}
	return state.Owner, nil
}

// TransferCustody implements custody.PositionManager. It enforces current
// ownership and dispatches the receiver hook, aborting on a missing or
// wrong acknowledgment.
func (m *Manager) TransferCustody(ctx context.Context, from, to common.Address, positionID *big.Int) error {
	if m.BeforeTransfer != nil {
		if err := m.BeforeTransfer(from, to, positionID); err != nil {
			return err
		}
	}

	m.mu.Lock()
	state, err := m.position(positionID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if state.Owner != from {
		m.mu.Unlock()
		return errors.Errorf("transfer of position %v not authorized for %v", positionID, from.Hex())
	}
	receiver := m.receivers[to]
	m.mu.Unlock()

	if receiver != nil {
		ack, err := receiver.OnCustodyReceived(ctx, from, from, positionID, m.address)
		if err != nil {
			return errors.Wrap(err, "custody receiver rejected transfer")
		}
		if ack != custody.AckCustodyReceived {
			return errors.New("custody receiver returned wrong acknowledgment")
		}
	}

	m.mu.Lock()
	state.Owner = to
	m.mu.Unlock()
	return nil
}

// DecreaseLiquidity implements custody.PositionManager.
func (m *Manager) DecreaseLiquidity(_ context.Context, positionID, liquidity, amountMin0, amountMin1 *big.Int, deadline time.Time) (*big.Int, *big.Int, error) {
	if m.BeforeDecrease != nil {
		if err := m.BeforeDecrease(positionID); err != nil {
			return nil, nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.position(positionID)
	if err != nil {
		return nil, nil, err
	}

	if !deadline.IsZero() && time.Now().After(deadline) {
		return nil, nil, errors.New("transaction too old")
	}
	if liquidity.Cmp(state.Liquidity) > 0 {
		return nil, nil, errors.New("decrease exceeds position liquidity")
	}

	amount0 := new(big.Int).Set(amountMin0)
	amount1 := new(big.Int).Set(amountMin1)
	if scripted, ok := m.amounts[positionID.String()]; ok {
		amount0 = new(big.Int).Set(scripted.amount0)
		amount1 = new(big.Int).Set(scripted.amount1)
	}

	if !m.SkipBoundEnforcement {
		if amount0.Cmp(amountMin0) < 0 || amount1.Cmp(amountMin1) < 0 {
			return nil, nil, errors.New("price slippage check")
		}
	}

	state.Liquidity = new(big.Int).Sub(state.Liquidity, liquidity)
	state.TokensOwed0 = new(big.Int).Add(state.TokensOwed0, amount0)
	state.TokensOwed1 = new(big.Int).Add(state.TokensOwed1, amount1)

	return amount0, amount1, nil
}

// CollectProceeds implements custody.PositionManager.
func (m *Manager) CollectProceeds(_ context.Context, positionID *big.Int, recipient common.Address, max0, max1 *big.Int) (*big.Int, *big.Int, error) {
	if m.BeforeCollect != nil {
		if err := m.BeforeCollect(positionID); err != nil {
			return nil, nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.position(positionID)
	if err != nil {
		return nil, nil, err
	}

	pay0 := bigMin(state.TokensOwed0, max0)
	pay1 := bigMin(state.TokensOwed1, max1)

	state.TokensOwed0 = new(big.Int).Sub(state.TokensOwed0, pay0)
	state.TokensOwed1 = new(big.Int).Sub(state.TokensOwed1, pay1)

	p, ok := m.proceeds[recipient]
	if !ok {
		p = &realized{amount0: big.NewInt(0), amount1: big.NewInt(0)}
		m.proceeds[recipient] = p
	}
	p.amount0 = new(big.Int).Add(p.amount0, pay0)
	p.amount1 = new(big.Int).Add(p.amount1, pay1)

	return pay0, pay1, nil
}

func (m *Manager) position(positionID *big.Int) (*PositionState, error) {
	state, ok := m.positions[positionID.String()]
	if !ok {
		return nil, errors.Errorf("unknown position %v", positionID)
	}
	return state, nil
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
