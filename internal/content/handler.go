package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/shared/server/respond"
	"portal-backend/internal/shared/util"
	"portal-backend/internal/validate"
)

const (
	maxContactNameLen    = 100
	maxContactMessageLen = 5000
)

// Handler serves the marketing content and the public contact form.
type Handler struct {
	Contact ContactRepo
}

func NewHandler(contact ContactRepo) *Handler {
	return &Handler{Contact: contact}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/content/services", h.services)
	rg.GET("/content/faq", h.faq)
	rg.GET("/content/team", h.team)
	rg.POST("/contact", h.contact)
}

func (h *Handler) services(c *gin.Context) {
	respond.OK(c, services)
}

func (h *Handler) faq(c *gin.Context) {
	respond.OK(c, faq)
}

func (h *Handler) team(c *gin.Context) {
	respond.OK(c, team)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	name := util.SanitizeText(req.Name)
	message := util.SanitizeText(req.Message)

	issues := map[string]string{}
	if name == "" {
		issues["name"] = "required"
	} else if len(name) > maxContactNameLen {
		issues["name"] = "too long"
	}
	if !validate.Email(req.Email) {
		issues["email"] = "invalid email address"
	}
	if message == "" {
		issues["message"] = "required"
	} else if len(message) > maxContactMessageLen {
		issues["message"] = "too long"
	}
	if len(issues) > 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid contact submission", issues)
		return
	}

	msg := newContactMessage(name, req.Email, message)
	if err := h.Contact.Create(c.Request.Context(), msg); err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to record message", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"received": true, "id": msg.ID})
}
