package custody_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/lp-custody/internal/custody"
	"github/chapool/lp-custody/internal/custody/audit"
	"github/chapool/lp-custody/internal/custody/custodytest"
)

var (
	controller = common.HexToAddress("0x1000000000000000000000000000000000000001")
	custodian  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	managerAt  = common.HexToAddress("0x3000000000000000000000000000000000000003")
	caller     = common.HexToAddress("0x4000000000000000000000000000000000000004")
	recipient  = common.HexToAddress("0x5000000000000000000000000000000000000005")
	token0     = common.HexToAddress("0x6000000000000000000000000000000000000006")
	token1     = common.HexToAddress("0x7000000000000000000000000000000000000007")
)

type fixture struct {
	svc     custody.Service
	manager *custodytest.Manager
	tokens  *custodytest.TokenLedger
	clock   *custodytest.Clock
	audit   audit.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	manager := custodytest.NewManager(managerAt)
	tokens := custodytest.NewTokenLedger(custodian)
	clock := custodytest.NewClock(time.Now())
	recorder := audit.NewMemoryRecorder()

	svc, err := custody.NewService(custody.Options{
		Controller: controller,
		Custodian:  custodian,
		Manager:    manager,
		Tokens:     tokens,
		Clock:      clock,
		Audit:      recorder,
	})
	require.NoError(t, err)

	manager.RegisterReceiver(custodian, svc)

	return &fixture{
		svc:     svc,
		manager: manager,
		tokens:  tokens,
		clock:   clock,
		audit:   recorder,
	}
}

func (f *fixture) seedPosition(positionID, liquidity, owed0, owed1 int64) *big.Int {
	id := big.NewInt(positionID)
	f.manager.SeedPosition(id, custodytest.PositionState{
		Owner:       caller,
		Token0:      token0,
		Token1:      token1,
		Liquidity:   big.NewInt(liquidity),
		TokensOwed0: big.NewInt(owed0),
		TokensOwed1: big.NewInt(owed1),
	})
	return id
}

func withdrawRequest(positionID *big.Int, liquidity, min0, min1 int64) *custody.WithdrawRequest {
	return &custody.WithdrawRequest{
		PositionID: positionID,
		Liquidity:  big.NewInt(liquidity),
		AmountMin0: big.NewInt(min0),
		AmountMin1: big.NewInt(min1),
		Deadline:   time.Now().Add(time.Hour),
		Recipient:  recipient,
	}
}

func TestWithdrawPartialReturnsCustody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(7, 1000, 5, 7)

	result, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 40, 60))
	require.NoError(t, err)

	// Realized amounts plus the previously accrued fees are collected in full.
	assert.Equal(t, "45", result.Amount0.String())
	assert.Equal(t, "67", result.Amount1.String())
	assert.True(t, result.CustodyReturned)
	assert.NotEmpty(t, result.RecordID)

	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, caller, owner)

	position, err := f.manager.Positions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "600", position.Liquidity.String())
	assert.Zero(t, position.TokensOwed0.Sign())
	assert.Zero(t, position.TokensOwed1.Sign())

	got0, got1 := f.manager.Proceeds(recipient)
	assert.Equal(t, "45", got0.String())
	assert.Equal(t, "67", got1.String())
}

func TestWithdrawFullDrainRetainsCustody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(8, 1000, 0, 0)

	result, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 1000, 100, 200))
	require.NoError(t, err)

	assert.False(t, result.CustodyReturned)
	assert.Equal(t, "100", result.Amount0.String())
	assert.Equal(t, "200", result.Amount1.String())

	// The drained shell stays with the custodian until recovered.
	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, custodian, owner)

	require.NoError(t, f.svc.RecoverPosition(ctx, controller, id))

	owner, err = f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, controller, owner)
}

func TestWithdrawZeroRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(9, 1000, 0, 0)

	req := withdrawRequest(id, 400, 0, 0)
	req.Recipient = common.Address{}

	_, err := f.svc.Withdraw(ctx, caller, req)
	require.ErrorIs(t, err, custody.ErrInvalidRecipient)

	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, caller, owner)
}

func TestWithdrawDeadlineExceeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(10, 1000, 0, 0)

	req := withdrawRequest(id, 400, 0, 0)
	f.clock.Advance(2 * time.Hour)

	_, err := f.svc.Withdraw(ctx, caller, req)
	require.ErrorIs(t, err, custody.ErrDeadlineExceeded)

	position, err := f.manager.Positions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1000", position.Liquidity.String())
}

func TestWithdrawInsufficientLiquidity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(11, 1000, 0, 0)

	_, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 2000, 0, 0))

	var insufficientErr *custody.InsufficientLiquidityError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "2000", insufficientErr.Requested.String())
	assert.Equal(t, "1000", insufficientErr.Available.String())

	// Nothing moved: custody stays with the caller, nothing was collected.
	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, caller, owner)

	got0, got1 := f.manager.Proceeds(recipient)
	assert.Zero(t, got0.Sign())
	assert.Zero(t, got1.Sign())
}

func TestWithdrawSlippageToken0(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(12, 1000, 0, 0)

	f.manager.SkipBoundEnforcement = true
	f.manager.SetRealizedAmounts(id, big.NewInt(39), big.NewInt(60))

	_, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 40, 60))

	var slippageErr *custody.SlippageError
	require.ErrorAs(t, err, &slippageErr)
	assert.True(t, slippageErr.IsToken0)
	assert.Equal(t, "40", slippageErr.Expected.String())
	assert.Equal(t, "39", slippageErr.Actual.String())

	// Aborted before collection: no proceeds reached the recipient and the
	// position went back to the caller.
	got0, got1 := f.manager.Proceeds(recipient)
	assert.Zero(t, got0.Sign())
	assert.Zero(t, got1.Sign())

	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, caller, owner)
}

func TestWithdrawSlippageToken1(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(13, 1000, 0, 0)

	f.manager.SkipBoundEnforcement = true
	f.manager.SetRealizedAmounts(id, big.NewInt(40), big.NewInt(59))

	_, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 40, 60))

	var slippageErr *custody.SlippageError
	require.ErrorAs(t, err, &slippageErr)
	assert.False(t, slippageErr.IsToken0)
	assert.Equal(t, "60", slippageErr.Expected.String())
	assert.Equal(t, "59", slippageErr.Actual.String())
}

func TestWithdrawUpstreamFailureHandsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(14, 1000, 0, 0)

	f.manager.BeforeDecrease = func(*big.Int) error {
		return errors.New("execution reverted")
	}

	_, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 0, 0))
	require.Error(t, err)

	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, caller, owner)
}

func TestWithdrawReentrancyRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(15, 1000, 0, 0)

	var nestedErr error
	f.manager.BeforeCollect = func(*big.Int) error {
		_, nestedErr = f.svc.Withdraw(ctx, caller, withdrawRequest(id, 100, 0, 0))
		return nestedErr
	}

	_, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 0, 0))
	require.Error(t, err)
	require.ErrorIs(t, nestedErr, custody.ErrReentrantCall)

	// The aborted outer withdrawal hands the position back.
	owner, err := f.manager.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, caller, owner)
}

func TestWithdrawSequentialAfterCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(16, 1000, 0, 0)

	_, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 0, 0))
	require.NoError(t, err)

	// The gate resets after each call, including failed ones.
	_, err = f.svc.Withdraw(ctx, caller, withdrawRequest(id, 5000, 0, 0))
	var insufficientErr *custody.InsufficientLiquidityError
	require.ErrorAs(t, err, &insufficientErr)

	_, err = f.svc.Withdraw(ctx, caller, withdrawRequest(id, 600, 0, 0))
	require.NoError(t, err)
}

func TestWithdrawWritesAuditRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPosition(17, 1000, 5, 7)

	result, err := f.svc.Withdraw(ctx, caller, withdrawRequest(id, 400, 40, 60))
	require.NoError(t, err)

	records, err := f.audit.List(ctx, audit.Filter{PositionID: id.String()})
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, result.RecordID, record.ID)
	assert.Equal(t, caller.Hex(), record.Caller)
	assert.Equal(t, "400", record.Liquidity)
	assert.Equal(t, "45", record.Amount0)
	assert.Equal(t, "67", record.Amount1)
	assert.Equal(t, recipient.Hex(), record.Recipient)
}

func TestOnCustodyReceived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.OnCustodyReceived(ctx, caller, caller, big.NewInt(1), managerAt)
	require.NoError(t, err)
	assert.Equal(t, custody.AckCustodyReceived, ack)

	untrusted := common.HexToAddress("0x9000000000000000000000000000000000000009")
	_, err = f.svc.OnCustodyReceived(ctx, caller, caller, big.NewInt(1), untrusted)
	require.ErrorIs(t, err, custody.ErrUnauthorizedNFT)
}

func TestTransferFromUntrustedCustodianRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A second manager deployment the service does not trust.
	rogue := custodytest.NewManager(common.HexToAddress("0x9000000000000000000000000000000000000009"))
	rogue.RegisterReceiver(custodian, f.svc)
	rogue.SeedPosition(big.NewInt(1), custodytest.PositionState{
		Owner:     caller,
		Liquidity: big.NewInt(100),
	})

	err := rogue.TransferCustody(ctx, caller, custodian, big.NewInt(1))
	require.Error(t, err)
	require.ErrorIs(t, errors.Cause(err), custody.ErrUnauthorizedNFT)

	owner, err := rogue.OwnerOf(ctx, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, caller, owner)
}
