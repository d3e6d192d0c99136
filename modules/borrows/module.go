package borrows

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/database"
	"github.com/gaborage/libris/logger"
	"github.com/gaborage/libris/messaging"
	"github.com/gaborage/libris/server"
)

const (
	defaultLoanDays  = 14
	defaultListLimit = 20

	eventBorrowed = "borrow.created"
	eventReturned = "borrow.returned"
)

// Module wires lending routes to their handlers and publishes lifecycle
// events for downstream consumers.
type Module struct {
	cfg       *config.Config
	log       logger.Logger
	repo      *Repository
	publisher messaging.Publisher
}

// NewModule creates the borrows module.
func NewModule(exec *database.Executor, publisher messaging.Publisher, cfg *config.Config, log logger.Logger) *Module {
	return &Module{
		cfg:       cfg,
		log:       log,
		repo:      NewRepository(exec),
		publisher: publisher,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "borrows"
}

// RegisterRoutes attaches the lending routes.
func (m *Module) RegisterRoutes(g *echo.Group) {
	g.GET("/borrows", server.Handle(m.cfg, m.list))
	g.GET("/borrows/:ref", server.Handle(m.cfg, m.get))
	g.POST("/borrows", server.HandleWithStatus(m.cfg, http.StatusCreated, m.borrow))
	g.POST("/borrows/:ref/return", server.Handle(m.cfg, m.returnBook))
}

func (m *Module) list(ctx server.HandlerContext, req listRequest) ([]BorrowRecord, server.IAPIError) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	result, err := m.repo.List(ctx.Echo.Request().Context(), ListFilter{
		StudentID: req.StudentID,
		Open:      req.Open,
		Limit:     limit,
		Offset:    req.Offset,
	})
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to list borrow records")
		return nil, server.NewInternalError("")
	}
	return result, nil
}

func (m *Module) get(ctx server.HandlerContext, req getRequest) (*BorrowRecord, server.IAPIError) {
	record, err := m.repo.Get(ctx.Echo.Request().Context(), req.Ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, server.NewNotFoundError("Borrow record")
		}
		m.log.Error().Err(err).Str("ref", req.Ref).Msg("Failed to fetch borrow record")
		return nil, server.NewInternalError("")
	}
	return record, nil
}

func (m *Module) borrow(ctx server.HandlerContext, req borrowRequest) (*BorrowRecord, server.IAPIError) {
	days := req.Days
	if days == 0 {
		days = defaultLoanDays
	}

	reqCtx := ctx.Echo.Request().Context()
	record, err := m.repo.Borrow(reqCtx, req.StudentID, req.BookID, days)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			return nil, server.NewNotFoundError("Book")
		case errors.Is(err, ErrNoCopiesAvailable):
			return nil, server.NewConflictError("No copies of this book are available")
		case database.IsForeignKeyViolation(err):
			return nil, server.NewUnprocessableEntityError("Student does not exist")
		}
		m.log.Error().Err(err).
			Int64("student_id", req.StudentID).
			Int64("book_id", req.BookID).
			Msg("Failed to borrow book")
		return nil, server.NewInternalError("")
	}

	m.publish(ctx, eventBorrowed, borrowedEvent{
		Ref:       record.Ref,
		StudentID: record.StudentID,
		BookID:    record.BookID,
		DueAt:     record.DueAt,
	})

	return record, nil
}

func (m *Module) returnBook(ctx server.HandlerContext, req returnRequest) (*BorrowRecord, server.IAPIError) {
	record, err := m.repo.Return(ctx.Echo.Request().Context(), req.Ref)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, server.NewNotFoundError("Borrow record")
		case errors.Is(err, ErrAlreadyReturned):
			return nil, server.NewConflictError("This borrow record is already returned")
		}
		m.log.Error().Err(err).Str("ref", req.Ref).Msg("Failed to return book")
		return nil, server.NewInternalError("")
	}

	returnedAt := time.Now().UTC()
	if record.ReturnedAt != nil {
		returnedAt = *record.ReturnedAt
	}
	m.publish(ctx, eventReturned, returnedEvent{
		Ref:        record.Ref,
		StudentID:  record.StudentID,
		BookID:     record.BookID,
		ReturnedAt: returnedAt,
	})

	return record, nil
}

// publish emits an event best-effort: a broker outage must not fail the
// request that already committed.
func (m *Module) publish(ctx server.HandlerContext, routingKey string, event any) {
	if err := m.publisher.Publish(ctx.Echo.Request().Context(), routingKey, event); err != nil {
		m.log.Warn().Err(err).Str("routing_key", routingKey).Msg("Failed to publish borrow event")
	}
}
