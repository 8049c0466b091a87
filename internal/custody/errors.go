package custody

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRecipient rejects withdrawal requests with a zero recipient.
	ErrInvalidRecipient = errors.New("recipient must not be the zero address")

	// ErrDeadlineExceeded rejects withdrawal requests past their deadline.
	ErrDeadlineExceeded = errors.New("request deadline exceeded")

	// ErrUnauthorizedNFT rejects inbound position transfers that do not
	// originate from the trusted position manager.
	ErrUnauthorizedNFT = errors.New("unauthorized NFT custodian")

	// ErrReentrantCall rejects nested entry into the withdrawal critical
	// section.
	ErrReentrantCall = errors.New("reentrant call rejected")

	// ErrNotController rejects administrative calls by anyone but the
	// controller.
	ErrNotController = errors.New("caller is not the controller")

	// ErrInvalidPositionManager rejects assigning a zero position manager
	// reference.
	ErrInvalidPositionManager = errors.New("position manager must not be the zero address")

	// ErrInvalidController rejects handing control to the zero address.
	ErrInvalidController = errors.New("controller must not be the zero address")
)

// InsufficientLiquidityError is returned when a request asks for more
// liquidity than the custodian currently reports for the position.
type InsufficientLiquidityError struct {
	Requested *big.Int
	Available *big.Int
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity: requested %v, available %v", e.Requested, e.Available)
}

// SlippageError is returned when the realized proceeds of the decrease step
// undercut the caller-supplied minimum for one of the two assets.
type SlippageError struct {
	Expected *big.Int
	Actual   *big.Int
	IsToken0 bool
}

func (e *SlippageError) Error() string {
	token := "token1"
	if e.IsToken0 {
		token = "token0"
	}
	return fmt.Sprintf("slippage exceeded for %s: expected at least %v, got %v", token, e.Expected, e.Actual)
}
