package billing

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

// RegisterRoutes attaches invoice routes. Creation is staff only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/invoices", h.list)
	rg.GET("/invoices/:id", h.get)
	rg.POST("/invoices", middleware.RequireStaff(), h.create)
}

type createRequest struct {
	UserID      string     `json:"userId"`
	Number      string     `json:"number"`
	Period      string     `json:"period"`
	AmountCents int64      `json:"amountCents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	IssuedAt    *time.Time `json:"issuedAt"`
	DueAt       *time.Time `json:"dueAt"`
}

type invoiceResponse struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	Period      string     `json:"period"`
	AmountCents int64      `json:"amountCents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	IssuedAt    time.Time  `json:"issuedAt"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
}

func toResponse(inv Invoice) invoiceResponse {
	return invoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		Period:      inv.Period,
		AmountCents: inv.AmountCents,
		Currency:    inv.Currency,
		Status:      inv.Status,
		IssuedAt:    inv.IssuedAt,
		DueAt:       inv.DueAt,
	}
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list invoices", nil)
		return
	}

	resp := make([]invoiceResponse, 0, len(list))
	for _, inv := range list {
		resp = append(resp, toResponse(inv))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	inv, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "invoice not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load invoice", nil)
		return
	}
	respond.OK(c, toResponse(inv))
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	input := CreateInput{
		UserID:      req.UserID,
		Number:      req.Number,
		Period:      req.Period,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      req.Status,
		DueAt:       req.DueAt,
	}
	if req.IssuedAt != nil {
		input.IssuedAt = *req.IssuedAt
	}

	inv, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		case errors.Is(err, ErrDuplicateNumber):
			respond.Error(c, http.StatusConflict, respond.CodeConflict, "invoice number already used", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to create invoice", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(inv))
}
