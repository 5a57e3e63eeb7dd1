package profiles

import (
	"errors"
	"net/http"

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
	rg.GET("/profile", h.get)
	rg.PATCH("/profile", h.update)
}

type updateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Company   *string `json:"company"`
	Phone     *string `json:"phone"`
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load profile", nil)
		return
	}
	respond.OK(c, profileResponse(profile))
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.Update(c.Request.Context(), userID, Patch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid profile fields", ve.Fields)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to update profile", nil)
		return
	}
	respond.OK(c, profileResponse(profile))
}

func profileResponse(p Profile) gin.H {
	return gin.H{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"company":   p.Company,
		"phone":     p.Phone,
		"updatedAt": p.UpdatedAt,
	}
}
