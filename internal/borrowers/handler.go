package borrowers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerdesk/brokerdesk/internal/access"
	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/shared"
	"github.com/brokerdesk/brokerdesk/internal/uistate"
)

// Handler exposes borrower selection and the permission-gated workflow
// actions. Rendering happens on the dashboard page; these routes mutate
// selection or pipeline state and redirect back.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   access.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers borrower routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAnyPermission(shared.PermViewBorrowers))
		r.Get("/{id}", h.selectBorrower)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAllPermissions(shared.PermRequestDocuments))
		r.Post("/{id}/request-documents", h.action(h.service.RequestDocuments))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAllPermissions(shared.PermSendToValuer))
		r.Post("/{id}/send-valuer", h.action(h.service.SendToValuer))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAllPermissions(shared.PermApproveLoans))
		r.Post("/{id}/approve", h.action(h.service.Approve))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAllPermissions(shared.PermEscalateToCommittee))
		r.Post("/{id}/escalate", h.action(h.service.Escalate))
	})
}

// selectBorrower makes the borrower the active detail-panel subject and
// returns to the dashboard.
func (h *Handler) selectBorrower(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := shared.SessionFromContext(r.Context())
	if _, err := h.service.Get(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("load borrower", slog.String("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	uistate.SetActiveBorrower(sess, id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) action(run func(ctx context.Context, id, requestedBy string) (ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess := shared.SessionFromContext(r.Context())
		requestedBy := ""
		if ident := auth.IdentityFromSession(r.Context(), sess, h.logger, nil); ident != nil {
			requestedBy = ident.Email
		}
		result, err := run(r.Context(), id, requestedBy)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			h.logger.Error("borrower action", slog.String("id", id), slog.Any("error", err))
			h.redirectWithFlash(w, r, "/", "error", shared.UserSafeMessage(err))
			return
		}
		h.redirectWithFlash(w, r, "/", "success", result.Message)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
