package custody

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func (s *service) Controller() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controller
}

func (s *service) CustodianAddress() common.Address {
	return s.custodian
}

func (s *service) PositionManagerAddress() common.Address {
	return s.positionManager().Address()
}

func (s *service) SetPositionManager(caller common.Address, manager PositionManager) error {
	if err := s.requireController(caller); err != nil {
		return err
	}
	if manager == nil || manager.Address() == (common.Address{}) {
		return ErrInvalidPositionManager
	}

	s.mu.Lock()
	previous := s.manager.Address()
	s.manager = manager
	s.mu.Unlock()

	log.Info().
		Str("previous", previous.Hex()).
		Str("current", manager.Address().Hex()).
		Msg("Position manager reference updated")

	return nil
}

func (s *service) RecoverPosition(ctx context.Context, caller common.Address, positionID *big.Int) error {
	if err := s.requireController(caller); err != nil {
		return err
	}
	if positionID == nil {
		return errors.New("position id must not be nil")
	}

	controller := s.Controller()
	if err := s.positionManager().TransferCustody(ctx, s.custodian, controller, positionID); err != nil {
		return errors.Wrap(err, "failed to recover position")
	}

	log.Info().
		Str("position_id", positionID.String()).
		Str("controller", controller.Hex()).
		Msg("Stranded position recovered to controller")

	return nil
}

func (s *service) SweepToken(ctx context.Context, caller, token common.Address, amount *big.Int) error {
	if err := s.requireController(caller); err != nil {
		return err
	}
	if s.tokens == nil {
		return errors.New("token transferrer is not configured")
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("sweep amount must be positive")
	}

	controller := s.Controller()
	if err := s.tokens.Transfer(ctx, token, controller, amount); err != nil {
		return errors.Wrap(err, "failed to sweep token")
	}

	log.Info().
		Str("token", token.Hex()).
		Str("amount", amount.String()).
		Str("controller", controller.Hex()).
		Msg("Token balance swept to controller")

	return nil
}

func (s *service) TransferControl(caller, newController common.Address) error {
	if err := s.requireController(caller); err != nil {
		return err
	}
	if newController == (common.Address{}) {
		return ErrInvalidController
	}

	s.mu.Lock()
	previous := s.controller
	s.controller = newController
	s.mu.Unlock()

	log.Info().
		Str("previous", previous.Hex()).
		Str("current", newController.Hex()).
		Msg("Controller role transferred")

	return nil
}

func (s *service) requireController(caller common.Address) error {
	if caller != s.Controller() {
		return ErrNotController
	}
	return nil
}
