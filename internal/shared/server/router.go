// Package server assembles the Gin engine from configured handlers.
package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/auth"
	"portal-backend/internal/billing"
	"portal-backend/internal/content"
	"portal-backend/internal/documents"
	"portal-backend/internal/profiles"
	"portal-backend/internal/questions"
	sharedauth "portal-backend/internal/shared/auth"
	"portal-backend/internal/shared/config"
	"portal-backend/internal/shared/server/middleware"
	"portal-backend/internal/shared/server/respond"
	"portal-backend/internal/shared/storage/object/local"
	"portal-backend/internal/tasks"
)

// RouterDeps carries everything the router needs; bootstrap fills it in.
type RouterDeps struct {
	Config           config.Config
	Tokens           *sharedauth.TokenManager
	AuthHandler      *auth.Handler
	GoogleAuth       *auth.GoogleService
	ProfilesHandler  *profiles.Handler
	DocumentsHandler *documents.Handler
	QuestionsHandler *questions.Handler
	TasksHandler     *tasks.Handler
	BillingHandler   *billing.Handler
	ContentHandler   *content.Handler
	// LocalStore is set when OBJECT_STORE=local; the router then serves
	// the HMAC-signed download paths itself.
	LocalStore *local.Store
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.SecurityHeaders(cfg.IsDevLike()),
		middleware.CORS(cfg.CORSAllowOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(rateLimits()))

	deps.ContentHandler.RegisterRoutes(api)
	deps.AuthHandler.RegisterRoutes(api)
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.LocalStore != nil {
		api.GET("/files/*key", serveSignedFile(deps.LocalStore))
	}

	authed := api.Group("", middleware.RequireAuth(deps.Tokens))
	deps.AuthHandler.RegisterProtectedRoutes(authed)
	deps.ProfilesHandler.RegisterRoutes(authed)
	deps.DocumentsHandler.RegisterRoutes(authed)
	deps.QuestionsHandler.RegisterRoutes(authed)
	deps.TasksHandler.RegisterRoutes(authed)
	deps.BillingHandler.RegisterRoutes(authed)

	if cfg.WebDistDir != "" {
		registerWebRoutes(r, deps.Tokens, cfg.WebDistDir)
	}

	return r
}

// rateLimits throttles credential guessing and contact-form spam harder
// than the rest of the API.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AUTH":    {Rate: 0.2, Burst: 10},
			"CONTACT": {Rate: 0.05, Burst: 5},
			"DEFAULT": {Rate: 50, Burst: 100},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.Request.URL.Path
			switch {
			case strings.HasPrefix(path, "/api/v1/auth/") && c.Request.Method == http.MethodPost:
				return "AUTH"
			case path == "/api/v1/contact":
				return "CONTACT"
			default:
				return "DEFAULT"
			}
		},
	}
}

// serveSignedFile streams a locally stored blob after checking the
// exp/sig pair minted by SignedURL.
func serveSignedFile(store *local.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		exp := c.Query("exp")
		sig := c.Query("sig")

		if !store.VerifySignature(key, exp, sig) {
			respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "link expired or invalid", nil)
			return
		}

		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "file not found", nil)
			return
		}
		defer rc.Close()

		var sniff [512]byte
		n, _ := io.ReadFull(rc, sniff[:])
		c.Header("Content-Type", http.DetectContentType(sniff[:n]))
		c.Status(http.StatusOK)
		c.Writer.Write(sniff[:n])
		io.Copy(c.Writer, rc)
	}
}

// registerWebRoutes serves the portal SPA with session guards on the
// dashboard pages and reverse guards on the auth pages.
func registerWebRoutes(r *gin.Engine, tokens *sharedauth.TokenManager, distDir string) {
	index := filepath.Join(distDir, "index.html")
	serveIndex := func(c *gin.Context) { c.File(index) }

	r.Static("/assets", filepath.Join(distDir, "assets"))
	r.GET("/", serveIndex)
	r.GET("/contact", serveIndex)
	r.GET("/culture", serveIndex)

	guarded := r.Group("", middleware.RequireSession(tokens, "/login"))
	guarded.GET("/dashboard", serveIndex)
	guarded.GET("/dashboard/*rest", serveIndex)

	public := r.Group("", middleware.PublicOnly(tokens, "/dashboard"))
	public.GET("/login", serveIndex)
	public.GET("/register", serveIndex)

	// Unknown paths fall through to the app shell, which renders its own
	// not-found page. API paths keep the JSON envelope.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "route not found", nil)
			return
		}
		serveIndex(c)
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
