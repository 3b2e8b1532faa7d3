package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/brokerdesk/brokerdesk/internal/access"
	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/borrowers"
	"github.com/brokerdesk/brokerdesk/internal/broker"
	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/onboarding"
	"github.com/brokerdesk/brokerdesk/internal/shared"
	"github.com/brokerdesk/brokerdesk/internal/uistate"
	"github.com/brokerdesk/brokerdesk/internal/view"
)

const fetchErrorMessage = "Could not load this panel. Please refresh."

// Handler renders the dashboard: the tabbed borrower pipeline, the
// borrower detail panel, the broker overview with the onboarding
// workflow, and the access-control demo panel.
type Handler struct {
	logger     *slog.Logger
	borrowers  *borrowers.Service
	broker     *broker.Service
	onboarding onboarding.SourcePort
	templates  *view.Engine
	csrf       *shared.CSRFManager
	brokerID   string
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, borrowerSvc *borrowers.Service, brokerSvc *broker.Service, workflow onboarding.SourcePort, templates *view.Engine, csrf *shared.CSRFManager, brokerID string) *Handler {
	return &Handler{
		logger:     logger,
		borrowers:  borrowerSvc,
		broker:     brokerSvc,
		onboarding: workflow,
		templates:  templates,
		csrf:       csrf,
		brokerID:   brokerID,
	}
}

// MountRoutes registers dashboard routes. The caller wraps them in the
// authentication guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showDashboard)
	r.Get("/tabs/{tab}", h.switchTab)
	r.Post("/assistant/toggle", h.toggleAssistant)
}

// permissionFlags drives which actions the templates offer.
type permissionFlags struct {
	ViewBorrowers    bool
	EditBorrowers    bool
	RequestDocuments bool
	SendToValuer     bool
	ApproveLoans     bool
	Escalate         bool
	ViewBrokerStats  bool
	ManageUsers      bool
	ViewAnalytics    bool
}

// gateDemo is one row of the access-control demo panel.
type gateDemo struct {
	Label   string
	Granted bool
	Outcome string
}

// pageData is the dashboard view model.
type pageData struct {
	Identity      *identity.Identity
	Selection     uistate.Selection
	Pipeline      *borrowers.Pipeline
	PipelineError string
	Active        *borrowers.Borrower
	BrokerInfo    *broker.Info
	BrokerError   string
	Workflow      []string
	WorkflowError string
	Can           permissionFlags
	GateDemos     []gateDemo
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	ident := auth.IdentityFromSession(r.Context(), sess, h.logger, nil)
	if ident == nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	data := pageData{
		Identity:  ident,
		Selection: uistate.Load(sess),
		Can:       flagsFor(ident),
		GateDemos: gateDemosFor(ident),
	}

	// Collaborator fetches degrade their own panel; a failed fetch never
	// fails the page.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		pipeline, err := h.borrowers.Pipeline(ctx)
		if err != nil {
			h.logger.Warn("fetch pipeline", slog.Any("error", err))
			data.PipelineError = fetchErrorMessage
			return nil
		}
		data.Pipeline = pipeline
		return nil
	})
	if data.Can.ViewBrokerStats {
		g.Go(func() error {
			info, err := h.broker.Info(ctx, h.brokerID)
			if err != nil {
				h.logger.Warn("fetch broker info", slog.Any("error", err))
				data.BrokerError = fetchErrorMessage
				return nil
			}
			data.BrokerInfo = info
			return nil
		})
		g.Go(func() error {
			wf, err := h.onboarding.Workflow(ctx)
			if err != nil {
				h.logger.Warn("fetch workflow", slog.Any("error", err))
				data.WorkflowError = fetchErrorMessage
				return nil
			}
			data.Workflow = wf.Steps
			return nil
		})
	}
	_ = g.Wait()

	if data.Pipeline != nil && data.Selection.ActiveBorrowerID != "" {
		for _, b := range data.Pipeline.All() {
			if b.ID == data.Selection.ActiveBorrowerID {
				active := b
				data.Active = &active
				break
			}
		}
	}

	h.render(w, r, data)
}

func (h *Handler) switchTab(w http.ResponseWriter, r *http.Request) {
	tab := uistate.Tab(chi.URLParam(r, "tab"))
	if !tab.Valid() {
		http.NotFound(w, r)
		return
	}
	uistate.SetActiveTab(shared.SessionFromContext(r.Context()), tab)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) toggleAssistant(w http.ResponseWriter, r *http.Request) {
	uistate.ToggleAssistant(shared.SessionFromContext(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "BrokerDesk",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// ShowDashboardForTest exposes the GET handler for tests.
func (h *Handler) ShowDashboardForTest(w http.ResponseWriter, r *http.Request) {
	h.showDashboard(w, r)
}

func flagsFor(ident *identity.Identity) permissionFlags {
	return permissionFlags{
		ViewBorrowers:    access.HasPermission(ident, shared.PermViewBorrowers),
		EditBorrowers:    access.HasPermission(ident, shared.PermEditBorrowers),
		RequestDocuments: access.HasPermission(ident, shared.PermRequestDocuments),
		SendToValuer:     access.HasPermission(ident, shared.PermSendToValuer),
		ApproveLoans:     access.HasPermission(ident, shared.PermApproveLoans),
		Escalate:         access.HasPermission(ident, shared.PermEscalateToCommittee),
		ViewBrokerStats:  access.HasPermission(ident, shared.PermViewBrokerStats),
		ManageUsers:      access.HasPermission(ident, shared.PermManageUsers),
		ViewAnalytics:    access.HasPermission(ident, shared.PermViewAnalytics),
	}
}

// gateDemosFor evaluates the demo gates shown on the access-control
// panel. Each row resolves a real gate against the signed-in identity so
// the panel doubles as a live truth table.
func gateDemosFor(ident *identity.Identity) []gateDemo {
	demos := []struct {
		label    string
		decision access.Decision
	}{
		{
			label:    "Role is broker",
			decision: access.RoleGate{Roles: []identity.Role{identity.RoleBroker}}.Evaluate(ident),
		},
		{
			label:    "Role is broker or admin",
			decision: access.RoleGate{Roles: []identity.Role{identity.RoleBroker, identity.RoleAdmin}}.Evaluate(ident),
		},
		{
			label:    "Role is broker and admin (require all)",
			decision: access.RoleGate{Roles: []identity.Role{identity.RoleBroker, identity.RoleAdmin}, RequireAll: true}.Evaluate(ident),
		},
		{
			label:    "Holds approve_loans",
			decision: access.PermissionGate{Permissions: []string{shared.PermApproveLoans}}.Evaluate(ident),
		},
		{
			label:    "Holds view_borrowers or manage_users",
			decision: access.PermissionGate{Permissions: []string{shared.PermViewBorrowers, shared.PermManageUsers}}.Evaluate(ident),
		},
		{
			label:    "Holds view_borrowers and manage_users (require all)",
			decision: access.PermissionGate{Permissions: []string{shared.PermViewBorrowers, shared.PermManageUsers}, RequireAll: true}.Evaluate(ident),
		},
	}
	out := make([]gateDemo, 0, len(demos))
	for _, d := range demos {
		out = append(out, gateDemo{
			Label:   d.label,
			Granted: d.decision.Granted,
			Outcome: access.Select(d.decision,
				func() string { return "Visible" },
				func() string { return "Hidden (" + d.decision.Reason.String() + ")" }),
		})
	}
	return out
}
