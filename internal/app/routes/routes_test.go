package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unionhq/union/internal/app/controllers"
	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/app/services"
	"github.com/unionhq/union/internal/middleware"
	"github.com/unionhq/union/internal/pkg/apperrors"
	"github.com/unionhq/union/internal/pkg/auth"
	"github.com/unionhq/union/internal/pkg/view"
)

// Minimal in-memory stores backing a fully wired router.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*models.User
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.seq++
	user.ID = r.seq
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(nil, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memUserRepo) SetResetToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (r *memUserRepo) GetByValidResetToken(_ context.Context, userID int64, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.ResetToken == nil || *u.ResetToken != token || u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(time.Now()) {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return nil
}

type memAdmissionRepo struct {
	mu    sync.Mutex
	seq   int64
	forms map[int64]*models.AdmissionForm
}

func (r *memAdmissionRepo) Create(_ context.Context, form *models.AdmissionForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[form.UserID]; ok {
		return apperrors.ErrAdmissionExists
	}
	r.seq++
	form.ID = r.seq
	form.SubmittedAt = time.Now()
	clone := *form
	r.forms[form.UserID] = &clone
	return nil
}

func (r *memAdmissionRepo) GetByUserID(_ context.Context, userID int64) (*models.AdmissionForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[userID]; ok {
		clone := *f
		return &clone, nil
	}
	return nil, apperrors.ErrAdmissionNotFound
}

func (r *memAdmissionRepo) ExistsByUserID(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.forms[userID]
	return ok, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func (r *memSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.ExpiresAt.After(time.Now()) {
		clone := *s
		return &clone, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) error {
	return nil
}

type testApp struct {
	router   *gin.Engine
	sessions *memSessionRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := &memUserRepo{users: make(map[int64]*models.User)}
	admissionRepo := &memAdmissionRepo{forms: make(map[int64]*models.AdmissionForm)}
	sessionRepo := &memSessionRepo{sessions: make(map[string]*models.Session)}

	resetTokens := auth.NewResetTokenService(auth.ResetTokenConfig{
		SecretKey: "test-secret",
		TTL:       time.Hour,
		Issuer:    "union.test",
	})

	lgr := zerolog.Nop()
	sessionService := services.NewSessionService(sessionRepo, time.Hour, lgr)
	authService := services.NewAuthService(userRepo, admissionRepo, resetTokens, lgr)
	admissionService := services.NewAdmissionService(admissionRepo, lgr)

	router := gin.New()
	router.SetHTMLTemplate(view.MustTemplates())

	SetupRouter(
		router,
		controllers.NewAuthController(authService, sessionService, false, lgr),
		controllers.NewAdmissionController(admissionService, lgr),
		middleware.NewSessionMiddleware(sessionService, lgr),
	)

	return &testApp{router: router, sessions: sessionRepo}
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (a *testApp) signUpAndIn(t *testing.T, name, email, password string) *http.Cookie {
	t.Helper()
	w := a.postForm("/signup", url.Values{"name": {name}, "email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/signin", w.Header().Get("Location"))

	w = a.postForm("/signin", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	return sessionCookie(t, w)
}

func TestAdmissionRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admission-form"},
		{http.MethodPost, "/admission-form"},
		{http.MethodGet, "/submission-data"},
	}

	for _, tc := range cases {
		var w *httptest.ResponseRecorder
		if tc.method == http.MethodGet {
			w = app.get(tc.path, nil)
		} else {
			w = app.postForm(tc.path, url.Values{"course": {"CS"}, "address": {"1 Main St"}, "phone": {"555-0100"}}, nil)
		}
		assert.Equal(t, http.StatusFound, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "/signin", w.Header().Get("Location"), "%s %s", tc.method, tc.path)
		assert.NotContains(t, w.Body.String(), "Admission Form")
	}
}

func TestSignInRedirectsByAdmissionState(t *testing.T) {
	app := newTestApp(t)

	cookie := app.signUpAndIn(t, "A", "a@x.com", "p1")

	// No admission record yet: sign-in lands on the form
	w := app.postForm("/signin", url.Values{"email": {"a@x.com"}, "password": {"p1"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admission-form", w.Header().Get("Location"))

	w = app.postForm("/admission-form", url.Values{"course": {"CS"}, "address": {"1 Main St"}, "phone": {"555-0100"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/submission-data", w.Header().Get("Location"))

	// With a record: sign-in lands on the submission view
	w = app.postForm("/signin", url.Values{"email": {"a@x.com"}, "password": {"p1"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/submission-data", w.Header().Get("Location"))
}

func TestSignUpDuplicateEmailRendersError(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/signup", url.Values{"name": {"A"}, "email": {"a@x.com"}, "password": {"p1"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// Case only differs; the lowercase-normalization invariant rejects it
	w = app.postForm("/signup", url.Values{"name": {"B"}, "email": {"A@X.com"}, "password": {"p2"}}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists!")
}

func TestSignInInvalidCredentialsRendersError(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/signin", url.Values{"email": {"nobody@x.com"}, "password": {"p1"}}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials!")
	assert.Empty(t, w.Header().Get("Location"))
}

func TestSubmissionFlow(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signUpAndIn(t, "A", "a@x.com", "p1")

	// Before submitting: the "no submission" state, not an error
	w := app.get("/submission-data", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No submission found!")

	w = app.postForm("/admission-form", url.Values{"course": {"Physics"}, "address": {"1 Main St"}, "phone": {"555-0100"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/submission-data", w.Header().Get("Location"))

	w = app.get("/submission-data", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Physics")
	assert.Contains(t, w.Body.String(), "a@x.com")

	// A second submission does not create a second record
	w = app.postForm("/admission-form", url.Values{"course": {"Math"}, "address": {"2 Main St"}, "phone": {"555-0200"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/submission-data", w.Header().Get("Location"))

	w = app.get("/submission-data", cookie)
	assert.Contains(t, w.Body.String(), "Physics")
	assert.NotContains(t, w.Body.String(), "Math")
}

func TestForgotPasswordRedirectsToResetPage(t *testing.T) {
	app := newTestApp(t)
	app.signUpAndIn(t, "A", "a@x.com", "p1")

	w := app.postForm("/forgot-password", url.Values{"email": {"a@x.com"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/reset-password/"))
}

func TestForgotPasswordUnknownEmailRendersError(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/forgot-password", url.Values{"email": {"nobody@x.com"}}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email not found!")
}

func TestResetPasswordFlow(t *testing.T) {
	app := newTestApp(t)
	app.signUpAndIn(t, "A", "a@x.com", "old-pass")

	w := app.postForm("/forgot-password", url.Values{"email": {"a@x.com"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	resetPath := w.Header().Get("Location")
	token := strings.TrimPrefix(resetPath, "/reset-password/")

	// The reset form renders with the token bound into the form action
	w = app.get(resetPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), token)

	w = app.postForm(resetPath, url.Values{"password": {"new-pass"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/signin", w.Header().Get("Location"))

	// Old password rejected, new one signs in
	w = app.postForm("/signin", url.Values{"email": {"a@x.com"}, "password": {"old-pass"}}, nil)
	assert.Contains(t, w.Body.String(), "Invalid credentials!")

	w = app.postForm("/signin", url.Values{"email": {"a@x.com"}, "password": {"new-pass"}}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	app := newTestApp(t)

	// GET renders the error state with no token, so no form is offered
	w := app.get("/reset-password/bogus-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token!")
	assert.NotContains(t, w.Body.String(), "bogus-token")

	// POST re-renders with the known-bad token echoed back into the form
	w = app.postForm("/reset-password/bogus-token", url.Values{"password": {"new-pass"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token!")
	assert.Contains(t, w.Body.String(), "bogus-token")
}

func TestSecondResetRequestInvalidatesFirst(t *testing.T) {
	app := newTestApp(t)
	app.signUpAndIn(t, "A", "a@x.com", "p1")

	w := app.postForm("/forgot-password", url.Values{"email": {"a@x.com"}}, nil)
	firstPath := w.Header().Get("Location")

	w = app.postForm("/forgot-password", url.Values{"email": {"a@x.com"}}, nil)
	secondPath := w.Header().Get("Location")
	require.NotEqual(t, firstPath, secondPath)

	w = app.get(firstPath, nil)
	assert.Contains(t, w.Body.String(), "Invalid or expired token!")

	w = app.get(secondPath, nil)
	assert.NotContains(t, w.Body.String(), "Invalid or expired token!")
}

func TestSignOut(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signUpAndIn(t, "A", "a@x.com", "p1")

	w := app.get("/signout", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
	assert.Empty(t, app.sessions.sessions, "server-side session destroyed")

	// The old cookie no longer opens guarded routes
	w = app.get("/admission-form", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))
}

func TestHomeAndRootRedirect(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	w = app.get("/home", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Union Admissions")
}
