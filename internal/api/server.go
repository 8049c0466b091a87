package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/lp-custody/internal/config"
	"github/chapool/lp-custody/internal/custody"
	"github/chapool/lp-custody/internal/custody/audit"
	"github/chapool/lp-custody/internal/metrics"
	"github/chapool/lp-custody/internal/util"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

// ManagerFactory builds a position manager bound to the given deployment
// address. The PUT /position-manager handler uses it to construct the new
// trusted reference.
type ManagerFactory func(address common.Address) (custody.PositionManager, error)

// Router groups the route hierarchy of the server.
type Router struct {
	Routes       []*echo.Route
	Root         *echo.Group
	Management   *echo.Group
	APIV1Custody *echo.Group
}

// Server is the central struct keeping all dependencies. Echo and Router
// are initialized by router.Init; everything else by cmd/server (or the
// test harness).
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config  config.Server
	DB      *sql.DB // nil when the audit database is disabled
	Clock   time2.Clock
	Metrics *metrics.Service
	Audit   audit.Recorder

	Custody         custody.Service
	PositionManager custody.PositionManager
	ManagerFactory  ManagerFactory
	Tokens          custody.TokenTransferrer // optional, sweep path only
}

// NewServer returns an uninitialized server carrying the config.
func NewServer(config config.Server) *Server {
	return &Server{
		Config: config,
	}
}

// Ready reports whether all required components are initialized and the
// audit database (when enabled) is reachable.
func (s *Server) Ready() bool {
	required := struct {
		Echo            *echo.Echo
		Router          *Router
		Clock           time2.Clock
		Metrics         *metrics.Service
		Audit           audit.Recorder
		Custody         custody.Service
		PositionManager custody.PositionManager
		ManagerFactory  ManagerFactory
	}{s.Echo, s.Router, s.Clock, s.Metrics, s.Audit, s.Custody, s.PositionManager, s.ManagerFactory}

	if err := util.IsStructInitialized(&required); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	if s.Config.Database.Enabled {
		if s.DB == nil {
			return false
		}
		if err := s.DB.Ping(); err != nil {
			log.Debug().Err(err).Msg("Audit database is not reachable")
			return false
		}
	}

	return true
}

// Start begins serving requests on the configured listen address.
func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return errors.Wrap(err, "failed to start echo server")
	}

	return nil
}

// Shutdown stops the HTTP listener and closes the database connection.
func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")

		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	return errs
}
