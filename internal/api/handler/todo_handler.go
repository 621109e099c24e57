package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// TodoHandler handles HTTP requests for the caller's todos.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// List handles GET /todos.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "completed or pending"
// @Param        search      query     string  false  "Substring of the title"
// @Param        sort_by     query     string  false  "created_at, due_date or title"
// @Param        sort_order  query     string  false  "asc or desc"
// @Param        page        query     int     false  "Page number"
// @Param        per_page    query     int     false  "Items per page"
// @Success      200         {object}  listEnvelope
// @Failure      401         {object}  messageResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), userID, toListInput(c))
	if err != nil {
		return err
	}
	metrics.ListPageSize.Observe(float64(len(page.Items)))

	return c.JSON(http.StatusOK, listEnvelope{Status: statusSuccess, Data: toPaginatedTodos(page)})
}

// Stats handles GET /todos/stats.
//
// @Summary      Todo statistics
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsEnvelope
// @Failure      401  {object}  messageResponse
// @Router       /todos/stats [get]
func (h *TodoHandler) Stats(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsEnvelope{Status: statusSuccess, Data: toStatsResponse(stats)})
}

// Create handles POST /todos.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTodoRequest  true  "Todo"
// @Success      201   {object}  todoEnvelope
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  validationErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	input, err := toCreateInput(req)
	if err != nil {
		return err
	}

	todo, err := h.service.Create(c.Request().Context(), userID, input)
	if err != nil {
		return err
	}
	metrics.TodoMutationsTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, todoEnvelope{
		Status:  statusSuccess,
		Message: "Todo created successfully",
		Data:    toTodoResponse(todo),
	})
}

// Get handles GET /todos/:id.
//
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  todoEnvelope
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	todo, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todoEnvelope{Status: statusSuccess, Data: toTodoResponse(todo)})
}

// Update handles PUT /todos/:id. Only the supplied fields change.
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Todo ID"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  todoEnvelope
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  validationErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	input, err := toUpdateInput(req)
	if err != nil {
		return err
	}

	todo, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), input)
	if err != nil {
		return err
	}
	metrics.TodoMutationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, todoEnvelope{
		Status:  statusSuccess,
		Message: "Todo updated successfully",
		Data:    toTodoResponse(todo),
	})
}

// Delete handles DELETE /todos/:id.
//
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	metrics.TodoMutationsTotal.WithLabelValues("delete").Inc()

	return c.JSON(http.StatusOK, messageResponse{Status: statusSuccess, Message: "Todo deleted successfully"})
}

// MarkCompleted handles PATCH /todos/:id/complete.
//
// @Summary      Mark a todo as completed
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  todoEnvelope
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /todos/{id}/complete [patch]
func (h *TodoHandler) MarkCompleted(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	todo, err := h.service.MarkCompleted(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TodoMutationsTotal.WithLabelValues("complete").Inc()

	return c.JSON(http.StatusOK, todoEnvelope{
		Status:  statusSuccess,
		Message: "Todo marked as completed",
		Data:    toTodoResponse(todo),
	})
}

// MarkPending handles PATCH /todos/:id/pending.
//
// @Summary      Mark a todo as pending
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  todoEnvelope
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /todos/{id}/pending [patch]
func (h *TodoHandler) MarkPending(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	todo, err := h.service.MarkPending(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TodoMutationsTotal.WithLabelValues("pending").Inc()

	return c.JSON(http.StatusOK, todoEnvelope{
		Status:  statusSuccess,
		Message: "Todo marked as pending",
		Data:    toTodoResponse(todo),
	})
}
