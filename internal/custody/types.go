package custody

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AckCustodyReceived is the fixed acknowledgment a custody receiver must
// return for an inbound position transfer to complete (the ERC-721
// onERC721Received selector). Any other value, or an error, aborts the
// transfer on the custodian side.
var AckCustodyReceived = [4]byte{0x15, 0x0b, 0x7a, 0x02}

// MaxUint128 is the collect ceiling used to sweep everything owed on a
// position, including fees accrued before the decrease.
var MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Position is the custodian-reported state of a position at query time.
// It is never cached across calls; freshness-sensitive decisions re-query.
type Position struct {
	Token0      common.Address
	Token1      common.Address
	Liquidity   *big.Int
	TokensOwed0 *big.Int
	TokensOwed1 *big.Int
}

// WithdrawRequest is the per-call withdrawal order. It only exists for the
// duration of one Withdraw invocation and is never persisted.
type WithdrawRequest struct {
	PositionID *big.Int
	Liquidity  *big.Int
	AmountMin0 *big.Int
	AmountMin1 *big.Int
	Deadline   time.Time
	Recipient  common.Address
}

// WithdrawResult carries the realized proceeds of a completed withdrawal.
type WithdrawResult struct {
	// RecordID identifies the audit record written for this withdrawal.
	RecordID string
	// Amount0 and Amount1 are the collected totals routed to the recipient,
	// including previously accrued but uncollected fees.
	Amount0 *big.Int
	Amount1 *big.Int
	// CustodyReturned is false when the position was fully drained and its
	// empty shell stays with the custodian for administrative recovery.
	CustodyReturned bool
}

// PositionManager is the external accounts-keeping service that owns
// canonical position state. The orchestrator only ever talks to it through
// this interface.
type PositionManager interface {
	// Address identifies the manager deployment; the custody receipt
	// handler only accepts transfers originating from this address.
	Address() common.Address

	Positions(ctx context.Context, positionID *big.Int) (*Position, error)

	OwnerOf(ctx context.Context, positionID *big.Int) (common.Address, error)

	// TransferCustody moves the position from from to to. The manager must
	// enforce that from is the current owner or an approved operator and
	// must invoke the receiver's custody hook, aborting on a missing or
	// wrong acknowledgment.
	TransferCustody(ctx context.Context, from, to common.Address, positionID *big.Int) error

	// DecreaseLiquidity removes liquidity from the position, enforcing the
	// given minimums and deadline itself, and returns the realized amounts
	// now owed to the position.
	DecreaseLiquidity(ctx context.Context, positionID, liquidity, amountMin0, amountMin1 *big.Int, deadline time.Time) (*big.Int, *big.Int, error)

	// CollectProceeds pays out up to max0/max1 of the amounts owed on the
	// position to the recipient and returns what was actually collected.
	CollectProceeds(ctx context.Context, positionID *big.Int, recipient common.Address, max0, max1 *big.Int) (*big.Int, *big.Int, error)
}

// TokenTransferrer moves fungible token balances. Only the administrative
// sweep path uses it.
type TokenTransferrer interface {
	Transfer(ctx context.Context, token, to common.Address, amount *big.Int) error
}

// CustodyReceiver is implemented by parties able to accept inbound position
// transfers. The custodian must call the hook during TransferCustody and
// abort unless AckCustodyReceived is returned.
type CustodyReceiver interface {
	OnCustodyReceived(ctx context.Context, operator, from common.Address, positionID *big.Int, custodian common.Address) ([4]byte, error)
}

// TxHashProvider is implemented by managers that execute on-chain
// transactions; the audit record picks up the hash of the last one.
type TxHashProvider interface {
	LastTxHash() string
}
