package students

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

// Module wires student routes to their handlers.
type Module struct {
	cfg  *config.Config
	log  logger.Logger
	repo *Repository
}

// NewModule creates the students module.
func NewModule(exec *database.Executor, cfg *config.Config, log logger.Logger) *Module {
	return &Module{
		cfg:  cfg,
		log:  log,
		repo: NewRepository(exec),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "students"
}

// RegisterRoutes attaches the student CRUD routes.
func (m *Module) RegisterRoutes(g *echo.Group) {
	g.GET("/students", server.Handle(m.cfg, m.list))
	g.GET("/students/:id", server.Handle(m.cfg, m.get))
	g.POST("/students", server.HandleWithStatus(m.cfg, http.StatusCreated, m.create))
	g.PUT("/students/:id", server.Handle(m.cfg, m.update))
	g.DELETE("/students/:id", server.HandleWithStatus(m.cfg, http.StatusNoContent, m.delete))
}

func (m *Module) list(ctx server.HandlerContext, req listRequest) ([]Student, server.IAPIError) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	result, err := m.repo.List(ctx.Echo.Request().Context(), limit, req.Offset)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to list students")
		return nil, server.NewInternalError("")
	}
	return result, nil
}

func (m *Module) get(ctx server.HandlerContext, req getRequest) (*Student, server.IAPIError) {
	student, err := m.repo.Get(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, server.NewNotFoundError("Student")
		}
		m.log.Error().Err(err).Int64("student_id", req.ID).Msg("Failed to fetch student")
		return nil, server.NewInternalError("")
	}
	return student, nil
}

func (m *Module) create(ctx server.HandlerContext, req createRequest) (*Student, server.IAPIError) {
	student, err := m.repo.Create(ctx.Echo.Request().Context(), req.Name, req.Email)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, server.NewConflictError("A student with this email already exists")
		}
		m.log.Error().Err(err).Msg("Failed to create student")
		return nil, server.NewInternalError("")
	}
	return student, nil
}

func (m *Module) update(ctx server.HandlerContext, req updateRequest) (*Student, server.IAPIError) {
	student, err := m.repo.Update(ctx.Echo.Request().Context(), req.ID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Student")
		case database.IsUniqueViolation(err):
			return nil, server.NewConflictError("A student with this email already exists")
		}
		m.log.Error().Err(err).Int64("student_id", req.ID).Msg("Failed to update student")
		return nil, server.NewInternalError("")
	}
	return student, nil
}

func (m *Module) delete(ctx server.HandlerContext, req deleteRequest) (any, server.IAPIError) {
	err := m.repo.Delete(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Student")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewConflictError("Student has borrow records and cannot be deleted")
		}
		m.log.Error().Err(err).Int64("student_id", req.ID).Msg("Failed to delete student")
		return nil, server.NewInternalError("")
	}
	return nil, nil
}
