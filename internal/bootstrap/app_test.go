package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/shared/config"
)

const strongPassword = "Str0ng&Secure-Pass"

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := Build(config.Config{
		Env:               "dev",
		CORSAllowOrigins:  []string{"http://localhost:5173"},
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		JWTSecret:         "test-secret",
		AccessTokenTTL:    15 * time.Minute,
		RefreshTokenTTL:   24 * time.Hour,
		SignedURLTTL:      time.Hour,
		DownloadURLSecret: "test-secret",
		MaxUploadBytes:    1 << 20,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *App, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

type sessionResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Staff bool   `json:"staff"`
	} `json:"user"`
}

func registerUser(t *testing.T, app *App, email string) sessionResult {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"firstName":"Test","lastName":"User","company":"Hazel & Frost","phone":"+44 161 555 0100"}`, email, strongPassword)
	w := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	var res sessionResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestRegisterWeakPasswordListsMissingRequirements(t *testing.T) {
	app := newTestApp(t)

	body := `{"email":"client@example.com","password":"weakpw"}`
	w := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", body, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var envelope struct {
		Error struct {
			Code    string              `json:"code"`
			Details map[string][]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "validation_error" {
		t.Fatalf("code = %q", envelope.Error.Code)
	}
	if len(envelope.Error.Details["password"]) == 0 {
		t.Fatalf("no password details: %s", w.Body.String())
	}
}

func TestRegisterLoginSessionFlow(t *testing.T) {
	app := newTestApp(t)
	registerUser(t, app, "client@example.com")

	login := doJSON(t, app, http.MethodPost, "/api/v1/auth/login",
		`{"email":"client@example.com","password":"`+strongPassword+`"}`, "")
	if login.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", login.Code, login.Body.String())
	}
	var res sessionResult
	if err := json.Unmarshal(login.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("session status = %d", w.Code)
	}
	var session struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.User.Email != "client@example.com" {
		t.Fatalf("email = %q", session.User.Email)
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/v1/profile", "/api/v1/documents", "/api/v1/questions", "/api/v1/invoices"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}

func TestDocumentUploadListDeleteFlow(t *testing.T) {
	app := newTestApp(t)
	session := registerUser(t, app, "client@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "accounts-2025.pdf")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("%PDF-1.4 year end accounts"))
	mw.WriteField("serviceType", "accounts")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}

	list := doGet(t, app, "/api/v1/documents", session.AccessToken)
	var docs []struct {
		DocumentID string `json:"documentId"`
		URL        string `json:"url"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 1 || docs[0].URL == "" {
		t.Fatalf("unexpected listing: %s", list.Body.String())
	}

	// Filters narrow the listing by service type and upload year.
	filtered := doGet(t, app, "/api/v1/documents?serviceType=accounts", session.AccessToken)
	if !strings.Contains(filtered.Body.String(), docs[0].DocumentID) {
		t.Fatalf("serviceType filter dropped the document: %s", filtered.Body.String())
	}
	empty := doGet(t, app, "/api/v1/documents?serviceType=payroll", session.AccessToken)
	if strings.TrimSpace(empty.Body.String()) != "[]" {
		t.Fatalf("payroll filter should be empty: %s", empty.Body.String())
	}
	year := fmt.Sprintf("%d", time.Now().UTC().Year())
	byYear := doGet(t, app, "/api/v1/documents?year="+year, session.AccessToken)
	if !strings.Contains(byYear.Body.String(), docs[0].DocumentID) {
		t.Fatalf("year filter dropped the document: %s", byYear.Body.String())
	}
	priorYear := doGet(t, app, "/api/v1/documents?year=2001", session.AccessToken)
	if strings.TrimSpace(priorYear.Body.String()) != "[]" {
		t.Fatalf("prior year should be empty: %s", priorYear.Body.String())
	}

	// Download redirects to a fresh signed URL.
	dl := doGet(t, app, "/api/v1/documents/"+docs[0].DocumentID+"/download", session.AccessToken)
	if dl.Code != http.StatusFound {
		t.Fatalf("download status = %d, body %s", dl.Code, dl.Body.String())
	}
	if loc := dl.Header().Get("Location"); loc == "" {
		t.Fatal("download redirect has no location")
	}

	// The signed URL should serve the file through the API.
	fileReq := httptest.NewRequest(http.MethodGet, docs[0].URL, nil)
	fileW := httptest.NewRecorder()
	app.Router.ServeHTTP(fileW, fileReq)
	if fileW.Code != http.StatusOK {
		t.Fatalf("signed download status = %d", fileW.Code)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+docs[0].DocumentID, nil)
	del.Header.Set("Authorization", "Bearer "+session.AccessToken)
	delW := httptest.NewRecorder()
	app.Router.ServeHTTP(delW, del)
	if delW.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", delW.Code)
	}

	after := doGet(t, app, "/api/v1/documents", session.AccessToken)
	if strings.TrimSpace(after.Body.String()) != "[]" {
		t.Fatalf("documents remain: %s", after.Body.String())
	}
}

func TestQuestionStaffGate(t *testing.T) {
	app := newTestApp(t)
	session := registerUser(t, app, "client@example.com")

	created := doJSON(t, app, http.MethodPost, "/api/v1/questions",
		`{"subject":"VAT","message":"When is my return due?"}`, session.AccessToken)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", created.Code, created.Body.String())
	}
	var q struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}

	patch := doJSON(t, app, http.MethodPatch, "/api/v1/questions/"+q.ID,
		`{"status":"answered","answer":"31 January."}`, session.AccessToken)
	if patch.Code != http.StatusForbidden {
		t.Fatalf("non-staff patch status = %d", patch.Code)
	}
}

func TestInvoiceCreateIsStaffOnly(t *testing.T) {
	app := newTestApp(t)
	session := registerUser(t, app, "client@example.com")

	w := doJSON(t, app, http.MethodPost, "/api/v1/invoices",
		`{"userId":"someone","number":"INV-1","amountCents":100}`, session.AccessToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProfileUpdatePersists(t *testing.T) {
	app := newTestApp(t)
	session := registerUser(t, app, "client@example.com")

	w := doJSON(t, app, http.MethodPatch, "/api/v1/profile",
		`{"company":"Hart & Co"}`, session.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", w.Code, w.Body.String())
	}

	got := doGet(t, app, "/api/v1/profile", session.AccessToken)
	var profile struct {
		FirstName string `json:"firstName"`
		Company   string `json:"company"`
		Phone     string `json:"phone"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Registration seeded the rest; the patch must not clear it.
	if profile.FirstName != "Test" || profile.Company != "Hart & Co" {
		t.Fatalf("unexpected profile: %s", got.Body.String())
	}
	if profile.Phone != "+44 161 555 0100" {
		t.Fatalf("registration phone lost: %s", got.Body.String())
	}
}

func TestLogoutAllEndsEverySession(t *testing.T) {
	app := newTestApp(t)
	first := registerUser(t, app, "client@example.com")

	login := doJSON(t, app, http.MethodPost, "/api/v1/auth/login",
		fmt.Sprintf(`{"email":"client@example.com","password":%q}`, strongPassword), "")
	if login.Code != http.StatusOK {
		t.Fatalf("login status = %d", login.Code)
	}
	var second sessionResult
	if err := json.Unmarshal(login.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w := doJSON(t, app, http.MethodPost, "/api/v1/auth/logout-all", "", second.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("logout-all status = %d, body %s", w.Code, w.Body.String())
	}

	for i, refresh := range []string{first.RefreshToken, second.RefreshToken} {
		body := fmt.Sprintf(`{"refreshToken":%q}`, refresh)
		if r := doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh", body, ""); r.Code != http.StatusUnauthorized {
			t.Fatalf("session %d refresh status = %d", i, r.Code)
		}
	}
}

func TestWebRoutesServeAppShell(t *testing.T) {
	gin.SetMode(gin.TestMode)
	distDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(distDir, "index.html"), []byte("<!doctype html><title>portal</title>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.Mkdir(filepath.Join(distDir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir assets: %v", err)
	}

	app, err := Build(config.Config{
		Env:               "dev",
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		JWTSecret:         "test-secret",
		AccessTokenTTL:    15 * time.Minute,
		RefreshTokenTTL:   24 * time.Hour,
		SignedURLTTL:      time.Hour,
		DownloadURLSecret: "test-secret",
		MaxUploadBytes:    1 << 20,
		WebDistDir:        distDir,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, path := range []string{"/", "/contact", "/culture", "/no-such-page"} {
		w := doGet(t, app, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "portal") {
			t.Fatalf("%s did not serve the app shell: %s", path, w.Body.String())
		}
	}

	// Unknown API paths keep the JSON envelope instead of the shell.
	w := doGet(t, app, "/api/v1/no-such-endpoint", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("api 404 status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("api 404 body: %s", w.Body.String())
	}

	// Dashboard pages bounce anonymous visitors to the sign-in page.
	w = doGet(t, app, "/dashboard", "")
	if w.Code != http.StatusFound {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Fatalf("dashboard redirect = %q", loc)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func doGet(t *testing.T, app *App, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}
