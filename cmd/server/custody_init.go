package server

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/config"
	"github/chapool/lp-custody/internal/custody"
	"github/chapool/lp-custody/internal/custody/custodytest"
	"github/chapool/lp-custody/internal/custody/evm"
	"github/chapool/lp-custody/internal/metrics"
)

// initServer wires clock, audit store, metrics and the custody service with
// its position manager backend into the server struct.
func initServer(ctx context.Context, s *api.Server) error {
	cfg := s.Config

	if !common.IsHexAddress(cfg.Custody.ControllerAddress) {
		return errors.New("a valid CUSTODY_CONTROLLER_ADDRESS is required")
	}
	controller := common.HexToAddress(cfg.Custody.ControllerAddress)

	s.Clock = api.NewClock()
	s.Metrics = metrics.New(cfg)

	db, err := api.NewDB(cfg)
	if err != nil {
		return err
	}
	s.DB = db
	s.Audit = api.NewAuditRecorder(cfg, db)
	if db != nil {
		s.Metrics.RegisterDB(db)
	}

	if cfg.EVM.Enabled {
		return initEVMBackend(ctx, s, controller)
	}
	return initMemoryBackend(s, controller)
}

// resolveDeployment merges the static EVM config with the optional networks
// registry entry. Explicit EVM_* settings win over the registry.
func resolveDeployment(cfg config.Server) (managerAddress common.Address, rpcURL string, chainID int64, err error) {
	rpcURL = cfg.EVM.RPCURL
	chainID = cfg.EVM.ChainID
	manager := cfg.EVM.PositionManagerAddress

	if cfg.Custody.NetworksFile != "" && cfg.Custody.Network != "" {
		network, err := config.ResolveNetwork(cfg.Custody.NetworksFile, cfg.Custody.Network)
		if err != nil {
			return common.Address{}, "", 0, err
		}
		if manager == "" {
			manager = network.PositionManager
		}
		if network.RPCURL != "" {
			rpcURL = network.RPCURL
		}
		if network.ChainID != 0 {
			chainID = network.ChainID
		}
	}

	if !common.IsHexAddress(manager) {
		return common.Address{}, "", 0, errors.New("no valid position manager address configured")
	}

	return common.HexToAddress(manager), rpcURL, chainID, nil
}

func initEVMBackend(ctx context.Context, s *api.Server, controller common.Address) error {
	cfg := s.Config

	managerAddress, rpcURL, chainID, err := resolveDeployment(cfg)
	if err != nil {
		return err
	}

	client, err := evm.Dial(rpcURL)
	if err != nil {
		return err
	}

	checkCtx, cancel := context.WithTimeout(ctx, cfg.EVM.CallTimeout)
	defer cancel()

	nodeChainID, err := client.ChainID(checkCtx)
	if err != nil {
		return errors.Wrap(err, "failed to verify RPC node")
	}
	if nodeChainID.Int64() != chainID {
		return errors.Errorf("RPC node chain id %v does not match configured chain id %v", nodeChainID, chainID)
	}

	signer, err := evm.NewSigner(cfg.EVM.PrivateKey, chainID)
	if err != nil {
		return err
	}

	// The custodian is the hot wallet the service signs with.
	custodian := signer.Address()
	if cfg.Custody.CustodianAddress != "" && common.HexToAddress(cfg.Custody.CustodianAddress) != custodian {
		return errors.New("CUSTODY_CUSTODIAN_ADDRESS does not match the signing key")
	}

	manager, err := evm.NewManager(client, signer, managerAddress, cfg.EVM.GasLimit)
	if err != nil {
		return err
	}

	sweeper, err := evm.NewTokenSweeper(client, signer, cfg.EVM.GasLimit)
	if err != nil {
		return err
	}

	svc, err := custody.NewService(custody.Options{
		Controller: controller,
		Custodian:  custodian,
		Manager:    manager,
		Tokens:     sweeper,
		Clock:      s.Clock,
		Audit:      s.Audit,
		Metrics:    s.Metrics,
	})
	if err != nil {
		return err
	}

	s.PositionManager = manager
	s.Tokens = sweeper
	s.Custody = svc
	s.ManagerFactory = func(address common.Address) (custody.PositionManager, error) {
		return evm.NewManager(client, signer, address, cfg.EVM.GasLimit)
	}

	log.Info().
		Str("rpc_url", rpcURL).
		Int64("chain_id", chainID).
		Str("position_manager", managerAddress.Hex()).
		Str("custodian", custodian.Hex()).
		Msg("Custody service wired against on-chain position manager")

	return nil
}

// initMemoryBackend wires the in-memory position manager double. Meant for
// local development without a chain.
func initMemoryBackend(s *api.Server, controller common.Address) error {
	cfg := s.Config

	if !common.IsHexAddress(cfg.Custody.CustodianAddress) {
		return errors.New("a valid CUSTODY_CUSTODIAN_ADDRESS is required without EVM")
	}
	custodian := common.HexToAddress(cfg.Custody.CustodianAddress)

	managerAddress, _, _, err := resolveDeployment(cfg)
	if err != nil {
		return err
	}

	manager := custodytest.NewManager(managerAddress)
	tokens := custodytest.NewTokenLedger(custodian)

	svc, err := custody.NewService(custody.Options{
		Controller: controller,
		Custodian:  custodian,
		Manager:    manager,
		Tokens:     tokens,
		Clock:      s.Clock,
		Audit:      s.Audit,
		Metrics:    s.Metrics,
	})
	if err != nil {
		return err
	}

	manager.RegisterReceiver(custodian, svc)

	s.PositionManager = manager
	s.Tokens = tokens
	s.Custody = svc
	s.ManagerFactory = func(address common.Address) (custody.PositionManager, error) {
		next := custodytest.NewManager(address)
		next.RegisterReceiver(custodian, svc)
		return next, nil
	}

	log.Warn().
		Str("position_manager", managerAddress.Hex()).
		Msg("EVM disabled, custody service wired against in-memory position manager")

	return nil
}
