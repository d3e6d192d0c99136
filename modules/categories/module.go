package categories

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/database"
	"github.com/gaborage/libris/logger"
	"github.com/gaborage/libris/server"
)

const defaultListLimit = 50

// Module wires category routes to their handlers.
type Module struct {
	cfg  *config.Config
	log  logger.Logger
	repo *Repository
}

// NewModule creates the categories module.
func NewModule(exec *database.Executor, cfg *config.Config, log logger.Logger) *Module {
	return &Module{
		cfg:  cfg,
		log:  log,
		repo: NewRepository(exec),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "categories"
}

// RegisterRoutes attaches the category CRUD routes.
func (m *Module) RegisterRoutes(g *echo.Group) {
	g.GET("/categories", server.Handle(m.cfg, m.list))
	g.GET("/categories/:id", server.Handle(m.cfg, m.get))
	g.POST("/categories", server.HandleWithStatus(m.cfg, http.StatusCreated, m.create))
	g.PUT("/categories/:id", server.Handle(m.cfg, m.update))
	g.DELETE("/categories/:id", server.HandleWithStatus(m.cfg, http.StatusNoContent, m.delete))
}

func (m *Module) list(ctx server.HandlerContext, req listRequest) ([]Category, server.IAPIError) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	result, err := m.repo.List(ctx.Echo.Request().Context(), limit, req.Offset)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to list categories")
		return nil, server.NewInternalError("")
	}
	return result, nil
}

func (m *Module) get(ctx server.HandlerContext, req getRequest) (*Category, server.IAPIError) {
	category, err := m.repo.Get(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, server.NewNotFoundError("Category")
		}
		m.log.Error().Err(err).Int64("category_id", req.ID).Msg("Failed to fetch category")
		return nil, server.NewInternalError("")
	}
	return category, nil
}

func (m *Module) create(ctx server.HandlerContext, req createRequest) (*Category, server.IAPIError) {
	category, err := m.repo.Create(ctx.Echo.Request().Context(), req.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, server.NewConflictError("A category with this name already exists")
		}
		m.log.Error().Err(err).Msg("Failed to create category")
		return nil, server.NewInternalError("")
	}
	return category, nil
}

func (m *Module) update(ctx server.HandlerContext, req updateRequest) (*Category, server.IAPIError) {
	category, err := m.repo.Update(ctx.Echo.Request().Context(), req.ID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Category")
		case database.IsUniqueViolation(err):
			return nil, server.NewConflictError("A category with this name already exists")
		}
		m.log.Error().Err(err).Int64("category_id", req.ID).Msg("Failed to update category")
		return nil, server.NewInternalError("")
	}
	return category, nil
}

func (m *Module) delete(ctx server.HandlerContext, req deleteRequest) (any, server.IAPIError) {
	err := m.repo.Delete(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Category")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewConflictError("Category is referenced by books and cannot be deleted")
		}
		m.log.Error().Err(err).Int64("category_id", req.ID).Msg("Failed to delete category")
		return nil, server.NewInternalError("")
	}
	return nil, nil
}
