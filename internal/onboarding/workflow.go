// Package onboarding exposes the loan onboarding workflow step list
// shown beside the broker overview.
package onboarding

import "context"

// Workflow is the ordered onboarding step list.
type Workflow struct {
	Steps []string `json:"steps"`
}

// SourcePort defines data access for the workflow definition.
type SourcePort interface {
	Workflow(ctx context.Context) (*Workflow, error)
}

// StaticSource serves the built-in workflow definition. The step list is
// part of the product copy, not runtime data.
type StaticSource struct{}

// NewStaticSource constructs the static workflow source.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// Workflow returns the onboarding steps in display order.
func (s *StaticSource) Workflow(ctx context.Context) (*Workflow, error) {
	return &Workflow{Steps: []string{
		"Deal Intake",
		"IDV & Credit Check",
		"Document Upload",
		"AI Validation",
		"Credit Committee",
		"Approval & Docs",
		"Funder Syndication",
	}}, nil
}

var _ SourcePort = (*StaticSource)(nil)
