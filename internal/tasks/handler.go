package tasks

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/shared/server/middleware"
	"portal-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tasks", h.create)
	rg.GET("/tasks", h.list)
	rg.PATCH("/tasks/:id", h.update)
	rg.DELETE("/tasks/:id", h.remove)
}

type createRequest struct {
	Title string     `json:"title"`
	DueAt *time.Time `json:"dueAt"`
}

type updateRequest struct {
	Title  *string    `json:"title"`
	Status *string    `json:"status"`
	DueAt  *time.Time `json:"dueAt"`
}

type taskResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	DueAt     *time.Time `json:"dueAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toResponse(t Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		DueAt:     t.DueAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	task, err := h.Svc.Create(c.Request.Context(), userID, req.Title, req.DueAt)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to create task", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(task))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list tasks", nil)
		return
	}

	resp := make([]taskResponse, 0, len(list))
	for _, task := range list {
		resp = append(resp, toResponse(task))
	}
	respond.OK(c, resp)
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	task, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), UpdateInput{
		Title:  req.Title,
		Status: req.Status,
		DueAt:  req.DueAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "task not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to update task", nil)
		}
		return
	}
	respond.OK(c, toResponse(task))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "task not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to delete task", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
