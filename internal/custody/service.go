//nolint:ireturn
package custody

import (
	"context"
	"math/big"
	"sync"

	"github.com/aarondl/null/v8"
	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/lp-custody/internal/custody/audit"
	"github/chapool/lp-custody/internal/metrics"
)

// Service is the withdrawal orchestrator together with its custody receipt
// handler and the controller-only administrative surface.
type Service interface {
	CustodyReceiver

	// Withdraw takes temporary custody of the caller's position, removes
	// liquidity within the caller-supplied bounds, collects all proceeds to
	// the recipient and returns custody if residual liquidity remains.
	Withdraw(ctx context.Context, caller common.Address, req *WithdrawRequest) (*WithdrawResult, error)

	Controller() common.Address
	CustodianAddress() common.Address
	PositionManagerAddress() common.Address

	// SetPositionManager replaces the trusted custodian reference.
	SetPositionManager(caller common.Address, manager PositionManager) error

	// RecoverPosition transfers a position stranded with the custodian
	// (typically a fully drained shell) to the controller.
	RecoverPosition(ctx context.Context, caller common.Address, positionID *big.Int) error

	// SweepToken moves stray fungible token balances to the controller.
	SweepToken(ctx context.Context, caller, token common.Address, amount *big.Int) error

	// TransferControl hands the controller role to a new address.
	TransferControl(caller, newController common.Address) error
}

// Options wires the orchestrator's collaborators.
type Options struct {
	// Controller is the single administrative identity. Required.
	Controller common.Address
	// Custodian is the address under which the service holds positions
	// while a withdrawal is in flight. Required.
	Custodian common.Address
	// Manager is the trusted position manager reference. Required.
	Manager PositionManager
	// Tokens is used by the administrative sweep path only. Optional.
	Tokens TokenTransferrer
	// Clock defaults to the wall clock.
	Clock time2.Clock
	// Audit receives one record per successful withdrawal. Optional.
	Audit audit.Recorder
	// Metrics is optional.
	Metrics *metrics.Service
}

type service struct {
	custodian common.Address
	tokens    TokenTransferrer
	clock     time2.Clock
	audit     audit.Recorder
	metrics   *metrics.Service

	gate reentrancyGate

	// mu guards the two controller-mutable references.
	mu         sync.RWMutex
	controller common.Address
	manager    PositionManager
}

// NewService validates the wiring and returns the custody service.
func NewService(opts Options) (Service, error) {
	if opts.Controller == (common.Address{}) {
		return nil, ErrInvalidController
	}
	if opts.Custodian == (common.Address{}) {
		return nil, errors.New("custodian address must not be the zero address")
	}
	if opts.Manager == nil || opts.Manager.Address() == (common.Address{}) {
		return nil, ErrInvalidPositionManager
	}

	clock := opts.Clock
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &service{
		custodian:  opts.Custodian,
		tokens:     opts.Tokens,
		clock:      clock,
		audit:      opts.Audit,
		metrics:    opts.Metrics,
		controller: opts.Controller,
		manager:    opts.Manager,
	}, nil
}

func (s *service) Withdraw(ctx context.Context, caller common.Address, req *WithdrawRequest) (*WithdrawResult, error) {
	// The gate must reject nested entry before anything else happens; a
	// rejected call has no side effects at all.
	if !s.gate.enter() {
		s.observeOutcome(ErrReentrantCall)
		return nil, ErrReentrantCall
	}
	defer s.gate.exit()

	start := s.clock.Now()
	result, err := s.withdraw(ctx, caller, req)
	if s.metrics != nil {
		s.metrics.WithdrawalDurations.Observe(s.clock.Since(start).Seconds())
	}
	s.observeOutcome(err)
	return result, err
}

func (s *service) withdraw(ctx context.Context, caller common.Address, req *WithdrawRequest) (*WithdrawResult, error) {
	if req == nil {
		return nil, errors.New("withdraw request must not be nil")
	}
	if req.PositionID == nil || req.Liquidity == nil || req.AmountMin0 == nil || req.AmountMin1 == nil {
		return nil, errors.New("withdraw request is missing required amounts")
	}

	// Fail-fast validation, cheapest first, all before any custody moves.
	if req.Recipient == (common.Address{}) {
		return nil, ErrInvalidRecipient
	}
	if s.clock.Now().After(req.Deadline) {
		return nil, ErrDeadlineExceeded
	}

	mgr := s.positionManager()

	position, err := mgr.Positions(ctx, req.PositionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query position")
	}
	if req.Liquidity.Cmp(position.Liquidity) > 0 {
		return nil, &InsufficientLiquidityError{
			Requested: new(big.Int).Set(req.Liquidity),
			Available: new(big.Int).Set(position.Liquidity),
		}
	}

	// Pull custody first so the service is the authorized party for the
	// decrease and collect calls. The manager enforces that the caller is
	// the current owner or an approved operator.
	if err := mgr.TransferCustody(ctx, caller, s.custodian, req.PositionID); err != nil {
		return nil, errors.Wrap(err, "failed to take custody of position")
	}

	amount0, amount1, err := mgr.DecreaseLiquidity(ctx, req.PositionID, req.Liquidity, req.AmountMin0, req.AmountMin1, req.Deadline)
	if err != nil {
		s.handBack(ctx, mgr, caller, req.PositionID)
		return nil, errors.Wrap(err, "failed to decrease liquidity")
	}

	// The manager already enforced the minimums; this re-check yields an
	// explicit, asset-specific failure before anything reaches the
	// recipient.
	if amount0.Cmp(req.AmountMin0) < 0 {
		s.handBack(ctx, mgr, caller, req.PositionID)
		return nil, &SlippageError{Expected: new(big.Int).Set(req.AmountMin0), Actual: amount0, IsToken0: true}
	}
	if amount1.Cmp(req.AmountMin1) < 0 {
		s.handBack(ctx, mgr, caller, req.PositionID)
		return nil, &SlippageError{Expected: new(big.Int).Set(req.AmountMin1), Actual: amount1, IsToken0: false}
	}

	// Collect everything owed, not just the decrease proceeds: fees accrued
	// before this call are owed to the position and belong to the caller.
	collected0, collected1, err := mgr.CollectProceeds(ctx, req.PositionID, req.Recipient, MaxUint128, MaxUint128)
	if err != nil {
		s.handBack(ctx, mgr, caller, req.PositionID)
		return nil, errors.Wrap(err, "failed to collect proceeds")
	}

	// Residual liquidity decides custody. Re-query instead of arithmetic on
	// the earlier snapshot; the manager owns the canonical state.
	residual, err := mgr.Positions(ctx, req.PositionID)
	if err != nil {
		s.handBack(ctx, mgr, caller, req.PositionID)
		return nil, errors.Wrap(err, "failed to re-query residual liquidity")
	}

	custodyReturned := false
	if residual.Liquidity.Sign() > 0 {
		if err := mgr.TransferCustody(ctx, s.custodian, caller, req.PositionID); err != nil {
			return nil, errors.Wrap(err, "failed to return position custody")
		}
		custodyReturned = true
	}
	// A fully drained shell stays with the custodian on purpose; the
	// controller recovers it via RecoverPosition.

	record := &audit.Record{
		ID:         uuid.NewString(),
		Caller:     caller.Hex(),
		PositionID: req.PositionID.String(),
		Liquidity:  req.Liquidity.String(),
		Amount0:    collected0.String(),
		Amount1:    collected1.String(),
		Recipient:  req.Recipient.Hex(),
		CreatedAt:  s.clock.Now(),
	}
	if p, ok := mgr.(TxHashProvider); ok {
		if hash := p.LastTxHash(); hash != "" {
			record.TxHash = null.StringFrom(hash)
		}
	}
	if s.audit != nil {
		// The withdrawal already executed; a failed audit write must not
		// turn it into a reported failure.
		if err := s.audit.Record(ctx, record); err != nil {
			log.Error().Err(err).Str("record_id", record.ID).Msg("Failed to persist withdrawal audit record")
		}
	}

	if s.metrics != nil {
		if custodyReturned {
			s.metrics.CustodyReturnsTotal.Inc()
		} else {
			s.metrics.CustodyRetainedTotal.Inc()
		}
	}

	log.Info().
		Str("caller", caller.Hex()).
		Str("position_id", req.PositionID.String()).
		Str("liquidity", req.Liquidity.String()).
		Str("amount0", collected0.String()).
		Str("amount1", collected1.String()).
		Str("recipient", req.Recipient.Hex()).
		Bool("custody_returned", custodyReturned).
		Msg("Liquidity removed")

	return &WithdrawResult{
		RecordID:        record.ID,
		Amount0:         collected0,
		Amount1:         collected1,
		CustodyReturned: custodyReturned,
	}, nil
}

// handBack is the compensation path for failures after custody was pulled:
// the position goes back to the caller so it is never stranded by an
// aborted withdrawal. A failed hand-back is logged and left to the
// administrative recovery path.
func (s *service) handBack(ctx context.Context, mgr PositionManager, caller common.Address, positionID *big.Int) {
	if err := mgr.TransferCustody(ctx, s.custodian, caller, positionID); err != nil {
		log.Error().
			Err(err).
			Str("caller", caller.Hex()).
			Str("position_id", positionID.String()).
			Msg("Failed to return position custody after aborted withdrawal, recover via administrative path")
	}
}

// OnCustodyReceived is the safety gate for inbound position transfers: only
// the trusted position manager may hand positions to the service.
func (s *service) OnCustodyReceived(_ context.Context, operator, from common.Address, positionID *big.Int, custodian common.Address) ([4]byte, error) {
	if custodian != s.PositionManagerAddress() {
		if s.metrics != nil {
			s.metrics.ReceiptRejectedTotal.Inc()
		}
		log.Warn().
			Str("operator", operator.Hex()).
			Str("from", from.Hex()).
			Str("position_id", positionID.String()).
			Str("custodian", custodian.Hex()).
			Msg("Rejected custody transfer from untrusted custodian")
		return [4]byte{}, ErrUnauthorizedNFT
	}

	return AckCustodyReceived, nil
}

func (s *service) positionManager() PositionManager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

func (s *service) observeOutcome(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.WithdrawalsTotal.WithLabelValues(outcomeForError(err)).Inc()
}

func outcomeForError(err error) string {
	var insufficientErr *InsufficientLiquidityError
	var slippageErr *SlippageError

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrReentrantCall):
		return metrics.OutcomeReentrancy
	case errors.As(err, &slippageErr):
		return metrics.OutcomeSlippage
	case errors.Is(err, ErrInvalidRecipient), errors.Is(err, ErrDeadlineExceeded), errors.As(err, &insufficientErr):
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeUpstream
	}
}
