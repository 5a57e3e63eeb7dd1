package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/shared/server/middleware"
	"portal-backend/internal/shared/server/respond"
	"portal-backend/internal/shared/telemetry"
)

// RefreshCookie carries the refresh token for browser clients.
const RefreshCookie = "portal_refresh"

// ProfileLoader fetches the profile shown on the session payload. A nil
// loader or a load failure leaves the profile null; the session itself is
// still good.
type ProfileLoader func(ctx context.Context, userID string) (any, error)

type Handler struct {
	Svc           *Service
	LoadProfile   ProfileLoader
	SecureCookies bool
}

func NewHandler(svc *Service, loadProfile ProfileLoader, secureCookies bool) *Handler {
	return &Handler{Svc: svc, LoadProfile: loadProfile, SecureCookies: secureCookies}
}

// RegisterRoutes attaches the unauthenticated auth endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/refresh", h.refresh)
	rg.POST("/auth/logout", h.logout)
}

// RegisterProtectedRoutes attaches endpoints that need a valid token.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/session", h.session)
	rg.POST("/auth/logout-all", h.logoutAll)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	user, pair, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if err != nil {
		var re *RegistrationError
		switch {
		case errors.As(err, &re):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid registration details", re.Fields)
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, respond.CodeConflict, "email already registered", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to register", nil)
		}
		return
	}

	h.setSessionCookies(c, pair)
	respond.JSON(c, http.StatusCreated, sessionPayload(user, pair))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	user, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to sign in", nil)
		return
	}

	h.setSessionCookies(c, pair)
	respond.OK(c, sessionPayload(user, pair))
}

func (h *Handler) refresh(c *gin.Context) {
	token := h.refreshTokenFromRequest(c)
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "refresh token required", nil)
		return
	}

	user, pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			h.clearSessionCookies(c)
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "session expired", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to refresh session", nil)
		return
	}

	h.setSessionCookies(c, pair)
	respond.OK(c, sessionPayload(user, pair))
}

// logout always clears cookies, even when the token is missing or bad.
func (h *Handler) logout(c *gin.Context) {
	h.Svc.SignOut(c.Request.Context(), h.refreshTokenFromRequest(c))
	h.clearSessionCookies(c)
	respond.OK(c, gin.H{"signedOut": true})
}

// logoutAll revokes every session for the signed-in user, ending the
// login on all of their devices.
func (h *Handler) logoutAll(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.SignOutEverywhere(c.Request.Context(), userID); err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to sign out", nil)
		return
	}
	h.clearSessionCookies(c)
	respond.OK(c, gin.H{"signedOut": true})
}

func (h *Handler) session(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "session not found", nil)
		return
	}

	var profile any
	if h.LoadProfile != nil {
		profile, err = h.LoadProfile(c.Request.Context(), userID)
		if err != nil {
			telemetry.Warn("auth.session.profile_load_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
			profile = nil
		}
	}

	respond.OK(c, gin.H{
		"user":    userPayload(user),
		"profile": profile,
	})
}

func (h *Handler) refreshTokenFromRequest(c *gin.Context) string {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := c.Cookie(RefreshCookie); err == nil {
		return cookie
	}
	return ""
}

func (h *Handler) setSessionCookies(c *gin.Context, pair TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, pair.AccessToken, int(h.Svc.Tokens.AccessTTL().Seconds()), "/", "", h.SecureCookies, true)
	c.SetCookie(RefreshCookie, pair.RefreshToken, int(h.Svc.Tokens.RefreshTTL().Seconds()), "/", "", h.SecureCookies, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", h.SecureCookies, true)
}

func sessionPayload(user User, pair TokenPair) gin.H {
	return gin.H{
		"user":         userPayload(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	}
}

func userPayload(user User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"staff": user.Staff,
	}
}
