package test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/api/router"
	"github/chapool/lp-custody/internal/config"
	"github/chapool/lp-custody/internal/custody"
	"github/chapool/lp-custody/internal/custody/audit"
	"github/chapool/lp-custody/internal/custody/custodytest"
	"github/chapool/lp-custody/internal/metrics"
)

// Well-known addresses every test server is wired with.
const (
	ControllerAddress = "0x1000000000000000000000000000000000000001"
	CustodianAddress  = "0x2000000000000000000000000000000000000002"
	ManagerAddress    = "0x3000000000000000000000000000000000000003"
)

// DefaultServiceConfig returns the environment config with everything
// external disabled and the well-known test addresses set.
func DefaultServiceConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Database.Enabled = false
	cfg.EVM.Enabled = false
	cfg.Echo.ListenAddress = ":0"
	cfg.Echo.HideInternalServerErrorDetails = false
	cfg.Management.Secret = ""
	cfg.Custody.ControllerAddress = ControllerAddress
	cfg.Custody.CustodianAddress = CustodianAddress
	return cfg
}

// WithTestServer runs the closure against a fully wired server backed by the
// in-memory position manager double, token ledger and audit recorder.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	cfg := DefaultServiceConfig()
	s := api.NewServer(cfg)

	clock := custodytest.NewClock(time.Now())
	manager := custodytest.NewManager(common.HexToAddress(ManagerAddress))
	tokens := custodytest.NewTokenLedger(common.HexToAddress(CustodianAddress))

	s.Clock = clock
	s.Metrics = metrics.New(cfg)
	s.Audit = audit.NewMemoryRecorder()
	s.PositionManager = manager
	s.Tokens = tokens

	svc, err := custody.NewService(custody.Options{
		Controller: common.HexToAddress(ControllerAddress),
		Custodian:  common.HexToAddress(CustodianAddress),
		Manager:    manager,
		Tokens:     tokens,
		Clock:      clock,
		Audit:      s.Audit,
		Metrics:    s.Metrics,
	})
	require.NoError(t, err)

	manager.RegisterReceiver(common.HexToAddress(CustodianAddress), svc)

	s.Custody = svc
	s.ManagerFactory = func(address common.Address) (custody.PositionManager, error) {
		next := custodytest.NewManager(address)
		next.RegisterReceiver(common.HexToAddress(CustodianAddress), svc)
		return next, nil
	}

	router.Init(s)

	closure(s)
}

// TestManager returns the position manager double of a test server.
func TestManager(t *testing.T, s *api.Server) *custodytest.Manager {
	t.Helper()

	manager, ok := s.PositionManager.(*custodytest.Manager)
	require.True(t, ok, "server is not backed by the position manager double")
	return manager
}

// TestTokens returns the token ledger double of a test server.
func TestTokens(t *testing.T, s *api.Server) *custodytest.TokenLedger {
	t.Helper()

	tokens, ok := s.Tokens.(*custodytest.TokenLedger)
	require.True(t, ok, "server is not backed by the token ledger double")
	return tokens
}
