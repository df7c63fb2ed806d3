package models

// Priority is the ordered ticket urgency scale.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the position of p on the low < medium < high < critical
// scale. Unknown values rank below low so they never win a merge.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return -1
}

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// RoutingDecision is the classification produced for a new ticket. It is
// computed once per submission and never mutated afterward.
type RoutingDecision struct {
	Department        string   `json:"department"`
	Priority          Priority `json:"priority"`
	SuggestedTags     []string `json:"suggestedTags"`
	NeedsEscalation   bool     `json:"needsEscalation"`
	EscalationReason  string   `json:"escalationReason"`
	RoutingConfidence float64  `json:"routingConfidence"`
	Analysis          string   `json:"analysis"`
}
