// Package uistate keeps the per-session view selection: which pipeline
// tab is open, which borrower is active and whether the AI assistant
// panel is shown. The state is ephemeral presentation data; it rides in
// the session values and carries no authorization meaning.
package uistate

import (
	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// Tab identifies a pipeline bucket tab.
type Tab string

// Pipeline tabs.
const (
	TabNew      Tab = "new"
	TabInReview Tab = "in_review"
	TabApproved Tab = "approved"
)

// Valid reports whether t names a known tab.
func (t Tab) Valid() bool {
	switch t {
	case TabNew, TabInReview, TabApproved:
		return true
	}
	return false
}

// Session value keys.
const (
	keyActiveTab      = "ui.active_tab"
	keyActiveBorrower = "ui.active_borrower"
	keyAssistant      = "ui.assistant"
)

// Selection is the materialized UI state for one session.
type Selection struct {
	ActiveTab        Tab
	ActiveBorrowerID string
	AssistantEnabled bool
}

// Load reads the selection from the session, applying defaults: the
// "new" tab, no active borrower, assistant enabled.
func Load(sess *shared.Session) Selection {
	sel := Selection{ActiveTab: TabNew, AssistantEnabled: true}
	if sess == nil {
		return sel
	}
	if tab := Tab(sess.Get(keyActiveTab)); tab.Valid() {
		sel.ActiveTab = tab
	}
	sel.ActiveBorrowerID = sess.Get(keyActiveBorrower)
	if sess.Get(keyAssistant) == "off" {
		sel.AssistantEnabled = false
	}
	return sel
}

// SetActiveTab stores the open tab.
func SetActiveTab(sess *shared.Session, tab Tab) {
	if sess == nil || !tab.Valid() {
		return
	}
	sess.Set(keyActiveTab, string(tab))
}

// SetActiveBorrower stores the selected borrower; empty clears it.
func SetActiveBorrower(sess *shared.Session, id string) {
	if sess == nil {
		return
	}
	if id == "" {
		sess.Delete(keyActiveBorrower)
		return
	}
	sess.Set(keyActiveBorrower, id)
}

// ToggleAssistant flips the assistant flag and returns the new value.
func ToggleAssistant(sess *shared.Session) bool {
	if sess == nil {
		return true
	}
	enabled := Load(sess).AssistantEnabled
	if enabled {
		sess.Set(keyAssistant, "off")
	} else {
		sess.Set(keyAssistant, "on")
	}
	return !enabled
}

// Reset drops all selection state. It runs on sign-in so selections
// made under a previous identity do not carry over.
func Reset(sess *shared.Session) {
	if sess == nil {
		return
	}
	sess.Delete(keyActiveTab)
	sess.Delete(keyActiveBorrower)
	sess.Delete(keyAssistant)
}
