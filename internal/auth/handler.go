package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brokerdesk/brokerdesk/internal/observability"
	"github.com/brokerdesk/brokerdesk/internal/shared"
	"github.com/brokerdesk/brokerdesk/internal/uistate"
	"github.com/brokerdesk/brokerdesk/internal/view"
)

// Handler wires HTTP endpoints for the login screen and session
// teardown.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
	metrics        *observability.Metrics
}

// NewHandler constructs a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
		metrics:        metrics,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type loginPageData struct {
	Form  loginForm
	Error string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if ident := IdentityFromSession(r.Context(), sess, h.logger, h.metrics); ident != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginPageData{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	// A malformed form takes the same rejection path as a wrong
	// password: the caller never learns which field was at fault.
	if err := h.validator.Struct(form); err != nil {
		h.metrics.ObserveLogin(observability.LoginOutcomeRejected)
		h.renderLogin(w, r, loginPageData{Form: loginForm{Email: form.Email}, Error: shared.UserSafeMessage(shared.ErrInvalidCredentials)}, http.StatusBadRequest)
		return
	}

	client := NewClient(h.service, NewSessionStore(sess), h.logger)
	ident, err := client.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.metrics.ObserveLogin(observability.LoginOutcomeRejected)
		h.renderLogin(w, r, loginPageData{Form: loginForm{Email: form.Email}, Error: shared.UserSafeMessage(shared.ErrInvalidCredentials)}, http.StatusBadRequest)
		return
	}
	h.metrics.ObserveLogin(observability.LoginOutcomeSuccess)

	// Selections made under the previous identity do not carry over.
	uistate.Reset(sess)
	if sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back, " + ident.Name})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		client := NewClient(h.service, NewSessionStore(sess), h.logger)
		client.Restore(r.Context())
		client.Logout(r.Context())
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, data loginPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Sign in",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// ShowLoginForTest exposes the GET handler for tests.
func (h *Handler) ShowLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.showLogin(w, r)
}

// HandleLoginForTest exposes the POST handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleLogoutForTest exposes the logout handler for tests.
func (h *Handler) HandleLogoutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}
