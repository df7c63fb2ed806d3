// Package models defines the canonical member, session, ticket, and routing
// types shared across the service, along with the typed errors the
// member-platform client layer reports.
package models

// MembershipStatus describes the computed state of a member's plan.
type MembershipStatus string

const (
	// MembershipInactive means the member holds no membership at all.
	MembershipInactive MembershipStatus = "inactive"
	// MembershipFrozen means the membership is frozen. Frozen takes
	// precedence over date-based expiry.
	MembershipFrozen MembershipStatus = "frozen"
	// MembershipExpired means the membership's end date is in the past.
	MembershipExpired MembershipStatus = "expired"
	// MembershipActive means the membership is currently usable.
	MembershipActive MembershipStatus = "active"
)

// ActivityLevel buckets a member's total visit count into engagement tiers.
type ActivityLevel string

const (
	ActivityNew      ActivityLevel = "new"
	ActivityBeginner ActivityLevel = "beginner"
	ActivityRegular  ActivityLevel = "regular"
	ActivityFrequent ActivityLevel = "frequent"
	ActivityVIP      ActivityLevel = "vip"
)

// VisitStats aggregates a member's visit history across booking types.
type VisitStats struct {
	Appointments   int `json:"appointments"`
	Bookings       int `json:"bookings"`
	OpenAreaVisits int `json:"openAreaVisits"`
	TotalVisits    int `json:"totalVisits"`
}

// CustomField is a free-form key/value pair attached to a member record.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Member is the canonical normalized member shape. Every field carries an
// empty default; normalization never leaves a field undefined.
type Member struct {
	ID           string        `json:"id"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	PictureURL   string        `json:"pictureUrl"`
	VisitStats   VisitStats    `json:"visitStats"`
	CustomFields []CustomField `json:"customFields"`
	Tags         []string      `json:"tags"`

	// MembershipStatus and ActivityLevel are derived from the membership
	// and visit data below; they are never stored independently.
	MembershipStatus MembershipStatus `json:"membershipStatus"`
	ActivityLevel    ActivityLevel    `json:"activityLevel"`

	// Memberships and Sessions are populated only on the detail fetch path.
	Memberships []Membership `json:"memberships,omitempty"`
	Sessions    []Session    `json:"sessions,omitempty"`
}

// Membership is a purchased plan entitling a Member to Sessions.
// A nil EndDate means the membership is open-ended and is never considered
// expired by date comparison alone.
type Membership struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"`
	StartDate        string  `json:"startDate"`
	EndDate          *string `json:"endDate"`
	IsFrozen         bool    `json:"isFrozen"`
	SessionsUsed     int     `json:"sessionsUsed"`
	SessionLimit     int     `json:"sessionLimit"`
	AppointmentsUsed int     `json:"appointmentsUsed"`
	AppointmentLimit int     `json:"appointmentLimit"`
	CreditsRemaining float64 `json:"creditsRemaining"`
}
