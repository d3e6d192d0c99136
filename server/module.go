package server

import (
	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/logger"
)

// Module represents a self-contained application feature that registers
// its own routes on the shared server.
type Module interface {
	// Name returns a unique module identifier used in logs.
	Name() string
	// RegisterRoutes attaches the module's HTTP routes to the group.
	RegisterRoutes(g *echo.Group)
}

// RegisterModules registers all modules' routes under the server's base path.
func RegisterModules(s *Server, log logger.Logger, modules ...Module) {
	group := s.ModuleGroup()
	for _, module := range modules {
		module.RegisterRoutes(group)
		log.Info().Str("module", module.Name()).Msg("Module registered")
	}
}
