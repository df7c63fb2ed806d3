package momence

import (
	"math"
	"time"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// Activity tier boundaries, inclusive on the upper end of each band.
const (
	beginnerMaxVisits = 5
	regularMaxVisits  = 20
	frequentMaxVisits = 50
)

// MembershipStatus derives the computed status of a member's plan.
// Check order matters: a frozen membership reports frozen even when its end
// date is already in the past, and an absent end date never means expired.
func MembershipStatus(membership *models.Membership, now time.Time) models.MembershipStatus {
	if membership == nil {
		return models.MembershipInactive
	}
	if membership.IsFrozen {
		return models.MembershipFrozen
	}
	if membership.EndDate != nil {
		if end, err := time.Parse(time.RFC3339, *membership.EndDate); err == nil && end.Before(now) {
			return models.MembershipExpired
		}
	}
	return models.MembershipActive
}

// ActivityLevel buckets a total visit count into an engagement tier.
func ActivityLevel(totalVisits int) models.ActivityLevel {
	switch {
	case totalVisits <= 0:
		return models.ActivityNew
	case totalVisits <= beginnerMaxVisits:
		return models.ActivityBeginner
	case totalVisits <= regularMaxVisits:
		return models.ActivityRegular
	case totalVisits <= frequentMaxVisits:
		return models.ActivityFrequent
	default:
		return models.ActivityVIP
	}
}

// AvailableSpots derives remaining capacity, never negative.
func AvailableSpots(capacity, bookingCount int) int {
	if spots := capacity - bookingCount; spots > 0 {
		return spots
	}
	return 0
}

// UtilizationRate derives the booked share of capacity as a rounded
// percentage. A zero capacity yields zero rather than a division error.
func UtilizationRate(capacity, bookingCount int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(bookingCount) / float64(capacity) * 100))
}

// NormalizeMember maps a raw platform member into the canonical shape.
// Every output field receives an empty default when the source field is
// absent, and the computed status/tier fields are filled from the nested
// membership and visit data.
func NormalizeMember(raw RawMember) models.Member {
	member := models.Member{
		ID:           raw.ID,
		FirstName:    derefString(raw.FirstName),
		LastName:     derefString(raw.LastName),
		Email:        derefString(raw.Email),
		Phone:        derefString(raw.Phone),
		PictureURL:   derefString(raw.PictureURL),
		CustomFields: []models.CustomField{},
		Tags:         []string{},
	}

	if raw.Stats != nil {
		member.VisitStats = models.VisitStats{
			Appointments:   derefInt(raw.Stats.Appointments),
			Bookings:       derefInt(raw.Stats.Bookings),
			OpenAreaVisits: derefInt(raw.Stats.OpenAreaVisits),
			TotalVisits:    derefInt(raw.Stats.TotalVisits),
		}
	}
	if member.VisitStats.TotalVisits == 0 {
		member.VisitStats.TotalVisits = member.VisitStats.Appointments +
			member.VisitStats.Bookings + member.VisitStats.OpenAreaVisits
	}

	for _, field := range raw.CustomFields {
		member.CustomFields = append(member.CustomFields, models.CustomField{
			Name:  derefString(field.Name),
			Value: derefString(field.Value),
		})
	}
	for _, tag := range raw.Tags {
		if name := derefString(tag.Name); name != "" {
			member.Tags = append(member.Tags, name)
		}
	}

	for _, rawMembership := range raw.Memberships {
		member.Memberships = append(member.Memberships, NormalizeMembership(rawMembership))
	}
	for _, rawSession := range raw.Sessions {
		member.Sessions = append(member.Sessions, NormalizeSession(rawSession))
	}

	member.ActivityLevel = ActivityLevel(member.VisitStats.TotalVisits)
	member.MembershipStatus = models.MembershipInactive
	if len(member.Memberships) > 0 {
		member.MembershipStatus = MembershipStatus(&member.Memberships[0], time.Now())
	}

	return member
}

// NormalizeMembership maps a raw platform membership into the canonical
// shape with empty defaults.
func NormalizeMembership(raw RawMembership) models.Membership {
	return models.Membership{
		ID:               raw.ID,
		Type:             derefString(raw.Name),
		StartDate:        derefString(raw.StartDate),
		EndDate:          raw.EndDate,
		IsFrozen:         derefBool(raw.IsFrozen),
		SessionsUsed:     derefInt(raw.SessionsUsed),
		SessionLimit:     derefInt(raw.SessionLimit),
		AppointmentsUsed: derefInt(raw.AppointmentsUsed),
		AppointmentLimit: derefInt(raw.AppointmentLimit),
		CreditsRemaining: derefFloat(raw.CreditsRemaining),
	}
}

// NormalizeSession maps a raw session summary into the canonical shape,
// deriving available spots and utilization.
func NormalizeSession(raw RawSession) models.Session {
	capacity := derefInt(raw.Capacity)
	bookingCount := derefInt(raw.BookingCount)

	return models.Session{
		ID:              raw.ID,
		Name:            derefString(raw.Name),
		StartsAt:        derefString(raw.StartsAt),
		EndsAt:          derefString(raw.EndsAt),
		DurationMinutes: derefInt(raw.DurationMinutes),
		Capacity:        capacity,
		BookingCount:    bookingCount,
		AvailableSpots:  AvailableSpots(capacity, bookingCount),
		UtilizationRate: UtilizationRate(capacity, bookingCount),
		TeacherID:       derefString(raw.TeacherID),
		TeacherName:     derefString(raw.TeacherName),
		LocationID:      derefString(raw.LocationID),
		LocationName:    derefString(raw.LocationName),
		IsCancelled:     derefBool(raw.IsCancelled),
		IsDraft:         derefBool(raw.IsDraft),
		BookedNames:     []string{},
	}
}

// MergeSessionDetail overlays a detail record onto a summary session.
// Detail fields win on conflict; absent detail fields keep the summary
// values.
func MergeSessionDetail(summary models.Session, detail *RawSessionDetail) models.Session {
	if detail == nil {
		return summary
	}

	merged := summary
	overlay := NormalizeSession(detail.RawSession)

	if overlay.Name != "" {
		merged.Name = overlay.Name
	}
	if overlay.StartsAt != "" {
		merged.StartsAt = overlay.StartsAt
	}
	if overlay.EndsAt != "" {
		merged.EndsAt = overlay.EndsAt
	}
	if overlay.DurationMinutes != 0 {
		merged.DurationMinutes = overlay.DurationMinutes
	}
	if detail.Capacity != nil || detail.BookingCount != nil {
		merged.Capacity = overlay.Capacity
		merged.BookingCount = overlay.BookingCount
		merged.AvailableSpots = overlay.AvailableSpots
		merged.UtilizationRate = overlay.UtilizationRate
	}
	if overlay.TeacherID != "" {
		merged.TeacherID = overlay.TeacherID
	}
	if overlay.TeacherName != "" {
		merged.TeacherName = overlay.TeacherName
	}
	if overlay.LocationID != "" {
		merged.LocationID = overlay.LocationID
	}
	if overlay.LocationName != "" {
		merged.LocationName = overlay.LocationName
	}

	merged.Detailed = true
	merged.Description = derefString(detail.Description)
	merged.Level = derefString(detail.Level)
	for _, name := range detail.BookedNames {
		if n := derefString(name); n != "" {
			merged.BookedNames = append(merged.BookedNames, n)
		}
	}

	return merged
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
