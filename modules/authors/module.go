package authors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/database"
	"github.com/gaborage/libris/logger"
	"github.com/gaborage/libris/server"
)

const defaultListLimit = 20

// Module wires author routes to their handlers.
type Module struct {
	cfg  *config.Config
	log  logger.Logger
	repo *Repository
}

// NewModule creates the authors module.
func NewModule(exec *database.Executor, cfg *config.Config, log logger.Logger) *Module {
	return &Module{
		cfg:  cfg,
		log:  log,
		repo: NewRepository(exec),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "authors"
}

// RegisterRoutes attaches the author CRUD routes.
func (m *Module) RegisterRoutes(g *echo.Group) {
	g.GET("/authors", server.Handle(m.cfg, m.list))
	g.GET("/authors/:id", server.Handle(m.cfg, m.get))
	g.POST("/authors", server.HandleWithStatus(m.cfg, http.StatusCreated, m.create))
	g.PUT("/authors/:id", server.Handle(m.cfg, m.update))
	g.DELETE("/authors/:id", server.HandleWithStatus(m.cfg, http.StatusNoContent, m.delete))
}

func (m *Module) list(ctx server.HandlerContext, req listRequest) ([]Author, server.IAPIError) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	result, err := m.repo.List(ctx.Echo.Request().Context(), limit, req.Offset)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to list authors")
		return nil, server.NewInternalError("")
	}
	return result, nil
}

func (m *Module) get(ctx server.HandlerContext, req getRequest) (*Author, server.IAPIError) {
	author, err := m.repo.Get(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, server.NewNotFoundError("Author")
		}
		m.log.Error().Err(err).Int64("author_id", req.ID).Msg("Failed to fetch author")
		return nil, server.NewInternalError("")
	}
	return author, nil
}

func (m *Module) create(ctx server.HandlerContext, req createRequest) (*Author, server.IAPIError) {
	author, err := m.repo.Create(ctx.Echo.Request().Context(), req.Name, req.Bio)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to create author")
		return nil, server.NewInternalError("")
	}
	return author, nil
}

func (m *Module) update(ctx server.HandlerContext, req updateRequest) (*Author, server.IAPIError) {
	author, err := m.repo.Update(ctx.Echo.Request().Context(), req.ID, req.Name, req.Bio)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, server.NewNotFoundError("Author")
		}
		m.log.Error().Err(err).Int64("author_id", req.ID).Msg("Failed to update author")
		return nil, server.NewInternalError("")
	}
	return author, nil
}

func (m *Module) delete(ctx server.HandlerContext, req deleteRequest) (any, server.IAPIError) {
	err := m.repo.Delete(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Author")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewConflictError("Author has books in the catalog and cannot be deleted")
		}
		m.log.Error().Err(err).Int64("author_id", req.ID).Msg("Failed to delete author")
		return nil, server.NewInternalError("")
	}
	return nil, nil
}
