package questions

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

// RegisterRoutes attaches question routes. The status/answer update is
// staff only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questions", h.create)
	rg.GET("/questions", h.list)
	rg.GET("/questions/:id", h.get)
	rg.PATCH("/questions/:id", middleware.RequireStaff(), h.answer)
}

type createRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type answerRequest struct {
	Status string `json:"status"`
	Answer string `json:"answer"`
}

type questionResponse struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(q Question) questionResponse {
	return questionResponse{
		ID:        q.ID,
		Subject:   q.Subject,
		Message:   q.Message,
		Status:    q.Status,
		Answer:    q.Answer,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	q, err := h.Svc.Create(c.Request.Context(), userID, req.Subject, req.Message)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to submit question", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(q))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list questions", nil)
		return
	}

	resp := make([]questionResponse, 0, len(list))
	for _, q := range list {
		resp = append(resp, toResponse(q))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	q, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "question not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load question", nil)
		return
	}
	respond.OK(c, toResponse(q))
}

func (h *Handler) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	q, err := h.Svc.Answer(c.Request.Context(), c.Param("id"), req.Status, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "question not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to update question", nil)
		}
		return
	}
	respond.OK(c, toResponse(q))
}
