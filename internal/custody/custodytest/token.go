package custodytest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// TokenLedger is an in-memory fungible token ledger implementing
// custody.TokenTransferrer for the service's holder address.
type TokenLedger struct {
	holder common.Address

	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int
}

// NewTokenLedger returns a ledger transferring out of the given holder.
func NewTokenLedger(holder common.Address) *TokenLedger {
	return &TokenLedger{
		holder:   holder,
		balances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Mint credits the holder with the given token amount.
func (l *TokenLedger) Mint(token common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(token, l.holder, amount)
}

// BalanceOf returns the balance of addr for the given token.
func (l *TokenLedger) BalanceOf(token, addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	holders, ok := l.balances[token]
	if !ok {
		return big.NewInt(0)
	}
	balance, ok := holders[addr]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(balance)
}

// Transfer implements custody.TokenTransferrer.
func (l *TokenLedger) Transfer(_ context.Context, token, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	holders, ok := l.balances[token]
	if !ok {
		return errors.Errorf("no balance for token %v", token.Hex())
	}
	balance, ok := holders[l.holder]
	if !ok || balance.Cmp(amount) < 0 {
		return errors.Errorf("insufficient balance for token %v", token.Hex())
	}

	holders[l.holder] = new(big.Int).Sub(balance, amount)
	l.credit(token, to, amount)
	return nil
}

func (l *TokenLedger) credit(token, addr common.Address, amount *big.Int) {
	holders, ok := l.balances[token]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		l.balances[token] = holders
	}
	current, ok := holders[addr]
	if !ok {
		current = big.NewInt(0)
	}
	holders[addr] = new(big.Int).Add(current, amount)
}
