// Package routing produces the final routing decision for a ticket by
// composing the probabilistic classifier with the deterministic override
// tables, degrading to a fixed fallback when classification is unavailable.
package routing

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/classifier"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/config"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// fallbackDepartment receives tickets when classification is unavailable.
const fallbackDepartment = "Operations"

// Classifier is the external text-classification dependency.
type Classifier interface {
	Classify(ctx context.Context, req classifier.Request) (*models.RoutingDecision, error)
}

// FallbackCounter records degraded routing decisions. Satisfied by
// prometheus.Counter.
type FallbackCounter interface {
	Inc()
}

// Engine combines classifier output with the deterministic override tables.
type Engine struct {
	classifier          Classifier
	tables              *config.RoutingTables
	confidenceThreshold float64
	logger              *logrus.Logger
	fallbacks           FallbackCounter
}

// NewEngine creates a routing decision engine.
//
// Parameters:
//   - cls: External classification client
//   - tables: Subcategory override and category default tables
//   - confidenceThreshold: Classifier confidence below which the category
//     default department applies
//   - logger: Structured logger for routing decisions
func NewEngine(
	cls Classifier,
	tables *config.RoutingTables,
	confidenceThreshold float64,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		classifier:          cls,
		tables:              tables,
		confidenceThreshold: confidenceThreshold,
		logger:              logger,
	}
}

// SetFallbackCounter installs a counter incremented on every degraded
// fallback decision.
func (e *Engine) SetFallbackCounter(c FallbackCounter) {
	e.fallbacks = c
}

// Decide produces the routing decision for a ticket submission. It never
// returns an error: any classifier failure yields the fixed degraded
// fallback so ticket creation always completes.
func (e *Engine) Decide(ctx context.Context, req models.TicketRequest) *models.RoutingDecision {
	decision, err := e.classifier.Classify(ctx, classifier.Request{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		StudioID:    req.StudioID,
	})
	if err != nil {
		e.logger.WithError(err).Warn("Classification unavailable, using fallback routing decision")
		if e.fallbacks != nil {
			e.fallbacks.Inc()
		}
		return FallbackDecision()
	}

	e.sanitize(decision)
	e.applyOverrides(decision, req)

	e.logger.WithFields(logrus.Fields{
		"department": decision.Department,
		"priority":   decision.Priority,
		"confidence": decision.RoutingConfidence,
		"escalation": decision.NeedsEscalation,
	}).Info("Routing decision produced")

	return decision
}

// applyOverrides composes the deterministic tables over the classifier
// output. The subcategory override has the highest precedence and applies
// unconditionally; the category default fills the department only when the
// classifier produced none or reported low confidence, and never touches
// priority.
func (e *Engine) applyOverrides(decision *models.RoutingDecision, req models.TicketRequest) {
	if override, ok := e.tables.OverrideFor(req.Subcategory); ok {
		decision.Department = override.Department
		if override.Priority != "" {
			decision.Priority = models.Priority(override.Priority)
		}
		return
	}

	if defaultDept, ok := e.tables.DefaultFor(req.Category); ok {
		if decision.Department == "" || decision.RoutingConfidence < e.confidenceThreshold {
			decision.Department = defaultDept
		}
	}
}

// sanitize clamps classifier output into the documented value ranges.
func (e *Engine) sanitize(decision *models.RoutingDecision) {
	if !decision.Priority.Valid() {
		decision.Priority = models.PriorityMedium
	}
	if decision.RoutingConfidence < 0 {
		decision.RoutingConfidence = 0
	}
	if decision.RoutingConfidence > 1 {
		decision.RoutingConfidence = 1
	}
	if decision.SuggestedTags == nil {
		decision.SuggestedTags = []string{}
	}
}

// FallbackDecision returns the fixed degraded decision used when the
// classifier is unavailable.
func FallbackDecision() *models.RoutingDecision {
	return &models.RoutingDecision{
		Department:        fallbackDepartment,
		Priority:          models.PriorityMedium,
		SuggestedTags:     []string{},
		NeedsEscalation:   false,
		EscalationReason:  "",
		RoutingConfidence: 0,
		Analysis:          "Automatic classification was unavailable; ticket routed to Operations for manual triage.",
	}
}

// MergePriority combines a user-selected priority with the decision's
// priority on the ordered scale low < medium < high < critical. The
// decision wins only when it ranks strictly higher; a manual choice is
// never downgraded.
func MergePriority(userChoice, decided models.Priority) models.Priority {
	if !userChoice.Valid() {
		userChoice = models.PriorityMedium
	}
	if !decided.Valid() {
		return userChoice
	}
	if decided.Rank() > userChoice.Rank() {
		return decided
	}
	return userChoice
}
