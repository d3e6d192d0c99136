package books

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/database"
	"github.com/gaborage/libris/logger"
	"github.com/gaborage/libris/server"
)

const defaultSearchLimit = 20

// Module wires book catalog routes to their handlers.
type Module struct {
	cfg  *config.Config
	log  logger.Logger
	repo *Repository
}

// NewModule creates the books module.
func NewModule(exec *database.Executor, cfg *config.Config, log logger.Logger) *Module {
	return &Module{
		cfg:  cfg,
		log:  log,
		repo: NewRepository(exec),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "books"
}

// RegisterRoutes attaches the catalog routes.
func (m *Module) RegisterRoutes(g *echo.Group) {
	g.GET("/books", server.Handle(m.cfg, m.search))
	g.GET("/books/:id", server.Handle(m.cfg, m.get))
	g.POST("/books", server.HandleWithStatus(m.cfg, http.StatusCreated, m.create))
	g.PUT("/books/:id", server.Handle(m.cfg, m.update))
	g.DELETE("/books/:id", server.HandleWithStatus(m.cfg, http.StatusNoContent, m.delete))
}

func (m *Module) search(ctx server.HandlerContext, req searchRequest) ([]Book, server.IAPIError) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	result, err := m.repo.Search(ctx.Echo.Request().Context(), SearchFilter{
		Title:      req.Title,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
		Available:  req.Available,
		Limit:      limit,
		Offset:     req.Offset,
	})
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to search books")
		return nil, server.NewInternalError("")
	}
	return result, nil
}

func (m *Module) get(ctx server.HandlerContext, req getRequest) (*Book, server.IAPIError) {
	book, err := m.repo.Get(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, server.NewNotFoundError("Book")
		}
		m.log.Error().Err(err).Int64("book_id", req.ID).Msg("Failed to fetch book")
		return nil, server.NewInternalError("")
	}
	return book, nil
}

func (m *Module) create(ctx server.HandlerContext, req createRequest) (*Book, server.IAPIError) {
	book, err := m.repo.Create(ctx.Echo.Request().Context(),
		req.Title, req.ISBN, req.AuthorID, req.CategoryID, req.Quantity)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return nil, server.NewConflictError("A book with this ISBN already exists")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewUnprocessableEntityError("Referenced author or category does not exist")
		}
		m.log.Error().Err(err).Msg("Failed to create book")
		return nil, server.NewInternalError("")
	}
	return book, nil
}

func (m *Module) update(ctx server.HandlerContext, req updateRequest) (*Book, server.IAPIError) {
	book, err := m.repo.Update(ctx.Echo.Request().Context(), req.ID,
		req.Title, req.ISBN, req.AuthorID, req.CategoryID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Book")
		case database.IsUniqueViolation(err):
			return nil, server.NewConflictError("A book with this ISBN already exists")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewUnprocessableEntityError("Referenced author or category does not exist")
		}
		m.log.Error().Err(err).Int64("book_id", req.ID).Msg("Failed to update book")
		return nil, server.NewInternalError("")
	}
	return book, nil
}

func (m *Module) delete(ctx server.HandlerContext, req deleteRequest) (any, server.IAPIError) {
	err := m.repo.Delete(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Book")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewConflictError("Book has borrow records and cannot be deleted")
		}
		m.log.Error().Err(err).Int64("book_id", req.ID).Msg("Failed to delete book")
		return nil, server.NewInternalError("")
	}
	return nil, nil
}
