package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/middleware"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/service"
)

// EventHandler serves /api/v1/events. Every route runs behind JWTAuth.
type EventHandler struct {
	Commands *service.EventCommandService
	Queries  *service.EventQueryService
	Log      *zap.Logger
}

func NewEventHandler(cmd *service.EventCommandService, q *service.EventQueryService, log *zap.Logger) *EventHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventHandler{Commands: cmd, Queries: q, Log: log}
}

// Create POST /events
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	e, err := h.Commands.CreateEvent(ctx, middleware.CurrentUser(c), service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   date,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toEventResp(e))
}

// Update PUT /events/:id
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	in := service.UpdateEventInput{Title: req.Title, Description: req.Description}
	if req.EventDate != nil {
		date, err := parseEventDate(*req.EventDate)
		if err != nil {
			return respondError(c, h.Log, err)
		}
		in.EventDate = &date
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	e, err := h.Commands.UpdateEvent(ctx, middleware.CurrentUser(c), id, in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventResp(e))
}

// Delete DELETE /events/:id
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Commands.DeleteEvent(ctx, middleware.CurrentUser(c), id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Complete POST /events/:id/complete
func (h *EventHandler) Complete(c echo.Context) error {
	return h.transition(c, h.Commands.CompleteEvent)
}

// Cancel POST /events/:id/cancel
func (h *EventHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.Commands.CancelEvent)
}

func (h *EventHandler) transition(c echo.Context, apply func(context.Context, *model.User, uint64) (*model.Event, error)) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	e, err := apply(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventResp(e))
}

// Get GET /events/:id
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	e, err := h.Queries.GetEvent(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventResp(e))
}

// List GET /events
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	events, err := h.Queries.ListEvents(ctx, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventList(events))
}

// ByDate GET /events/date/:date
func (h *EventHandler) ByDate(c echo.Context) error {
	day, err := parseDay(c.Param("date"))
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	events, err := h.Queries.ListByDate(ctx, middleware.CurrentUser(c), day)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventList(events))
}

// Upcoming GET /events/upcoming?limit=N
func (h *EventHandler) Upcoming(c echo.Context) error {
	limit := service.DefaultUpcomingLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return badRequest(c, "limit must be an integer")
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	events, err := h.Queries.ListUpcoming(ctx, middleware.CurrentUser(c), limit)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toEventList(events))
}
