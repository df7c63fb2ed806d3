package momence_test

import (
	"testing"
	"time"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/momence"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestMembershipStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := "2026-01-01T00:00:00Z"
	future := "2026-12-31T00:00:00Z"

	tests := []struct {
		name       string
		membership *models.Membership
		want       models.MembershipStatus
	}{
		{"no membership", nil, models.MembershipInactive},
		{"frozen", &models.Membership{IsFrozen: true}, models.MembershipFrozen},
		{"frozen wins over expired", &models.Membership{IsFrozen: true, EndDate: &past}, models.MembershipFrozen},
		{"expired", &models.Membership{EndDate: &past}, models.MembershipExpired},
		{"future end date", &models.Membership{EndDate: &future}, models.MembershipActive},
		{"open-ended", &models.Membership{}, models.MembershipActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := momence.MembershipStatus(tt.membership, now)
			if got != tt.want {
				t.Errorf("MembershipStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestActivityLevel(t *testing.T) {
	tests := []struct {
		visits int
		want   models.ActivityLevel
	}{
		{0, models.ActivityNew},
		{-3, models.ActivityNew},
		{1, models.ActivityBeginner},
		{5, models.ActivityBeginner},
		{6, models.ActivityRegular},
		{20, models.ActivityRegular},
		{21, models.ActivityFrequent},
		{50, models.ActivityFrequent},
		{51, models.ActivityVIP},
	}

	for _, tt := range tests {
		got := momence.ActivityLevel(tt.visits)
		if got != tt.want {
			t.Errorf("ActivityLevel(%d) = %s, want %s", tt.visits, got, tt.want)
		}
	}
}

func TestAvailableSpots(t *testing.T) {
	if got := momence.AvailableSpots(20, 15); got != 5 {
		t.Errorf("AvailableSpots(20, 15) = %d, want 5", got)
	}
	// Overbooked sessions never report negative remaining capacity.
	if got := momence.AvailableSpots(20, 25); got != 0 {
		t.Errorf("AvailableSpots(20, 25) = %d, want 0", got)
	}
	if got := momence.AvailableSpots(0, 0); got != 0 {
		t.Errorf("AvailableSpots(0, 0) = %d, want 0", got)
	}
}

func TestUtilizationRate(t *testing.T) {
	if got := momence.UtilizationRate(20, 15); got != 75 {
		t.Errorf("UtilizationRate(20, 15) = %d, want 75", got)
	}
	if got := momence.UtilizationRate(3, 1); got != 33 {
		t.Errorf("UtilizationRate(3, 1) = %d, want 33", got)
	}
	if got := momence.UtilizationRate(3, 2); got != 67 {
		t.Errorf("UtilizationRate(3, 2) = %d, want 67", got)
	}
	if got := momence.UtilizationRate(0, 10); got != 0 {
		t.Errorf("UtilizationRate(0, 10) = %d, want 0", got)
	}
}

func TestNormalizeMember_Defaults(t *testing.T) {
	member := momence.NormalizeMember(momence.RawMember{ID: "m-1"})

	if member.ID != "m-1" {
		t.Errorf("Expected ID 'm-1', got '%s'", member.ID)
	}
	if member.FirstName != "" || member.Email != "" {
		t.Error("Expected empty string defaults for absent fields")
	}
	if member.CustomFields == nil || member.Tags == nil {
		t.Error("Expected empty slices, not nil, for custom fields and tags")
	}
	if member.MembershipStatus != models.MembershipInactive {
		t.Errorf("Expected inactive status without memberships, got %s", member.MembershipStatus)
	}
	if member.ActivityLevel != models.ActivityNew {
		t.Errorf("Expected new activity level for zero visits, got %s", member.ActivityLevel)
	}
}

func TestNormalizeMember_TotalVisitsSummed(t *testing.T) {
	member := momence.NormalizeMember(momence.RawMember{
		ID: "m-2",
		Stats: &momence.RawVisitStats{
			Appointments:   intPtr(3),
			Bookings:       intPtr(10),
			OpenAreaVisits: intPtr(2),
		},
	})

	if member.VisitStats.TotalVisits != 15 {
		t.Errorf("Expected total visits summed to 15, got %d", member.VisitStats.TotalVisits)
	}
	if member.ActivityLevel != models.ActivityRegular {
		t.Errorf("Expected regular activity level, got %s", member.ActivityLevel)
	}
}

func TestNormalizeMember_ReportedTotalWins(t *testing.T) {
	member := momence.NormalizeMember(momence.RawMember{
		ID: "m-3",
		Stats: &momence.RawVisitStats{
			Bookings:    intPtr(10),
			TotalVisits: intPtr(60),
		},
	})

	if member.VisitStats.TotalVisits != 60 {
		t.Errorf("Expected reported total 60, got %d", member.VisitStats.TotalVisits)
	}
	if member.ActivityLevel != models.ActivityVIP {
		t.Errorf("Expected vip activity level, got %s", member.ActivityLevel)
	}
}

func TestNormalizeMember_MembershipStatusFromFirstPlan(t *testing.T) {
	member := momence.NormalizeMember(momence.RawMember{
		ID: "m-4",
		Memberships: []momence.RawMembership{
			{ID: "p-1", Name: strPtr("Unlimited"), IsFrozen: boolPtr(true)},
			{ID: "p-2", Name: strPtr("Drop-in")},
		},
	})

	if member.MembershipStatus != models.MembershipFrozen {
		t.Errorf("Expected frozen status from first plan, got %s", member.MembershipStatus)
	}
	if len(member.Memberships) != 2 {
		t.Fatalf("Expected 2 memberships, got %d", len(member.Memberships))
	}
	if member.Memberships[0].Type != "Unlimited" {
		t.Errorf("Expected membership type 'Unlimited', got '%s'", member.Memberships[0].Type)
	}
}

func TestNormalizeSession_DerivedFields(t *testing.T) {
	session := momence.NormalizeSession(momence.RawSession{
		ID:           "s-1",
		Name:         strPtr("Morning Flow"),
		Capacity:     intPtr(20),
		BookingCount: intPtr(18),
	})

	if session.AvailableSpots != 2 {
		t.Errorf("Expected 2 available spots, got %d", session.AvailableSpots)
	}
	if session.UtilizationRate != 90 {
		t.Errorf("Expected 90%% utilization, got %d", session.UtilizationRate)
	}
	if session.Detailed {
		t.Error("Expected summary session to not be marked detailed")
	}
	if session.BookedNames == nil {
		t.Error("Expected empty booked names slice, not nil")
	}
}

func TestMergeSessionDetail(t *testing.T) {
	summary := momence.NormalizeSession(momence.RawSession{
		ID:           "s-2",
		Name:         strPtr("Evening Burn"),
		StartsAt:     strPtr("2026-03-10T18:00:00Z"),
		Capacity:     intPtr(12),
		BookingCount: intPtr(6),
		TeacherName:  strPtr("Anita"),
	})

	detail := &momence.RawSessionDetail{
		RawSession: momence.RawSession{
			ID:           "s-2",
			Name:         strPtr("Evening Burn 45"),
			Capacity:     intPtr(12),
			BookingCount: intPtr(9),
		},
		Description: strPtr("High intensity cycle class"),
		Level:       strPtr("Intermediate"),
		BookedNames: []*string{strPtr("Riya"), nil, strPtr("Dev")},
	}

	merged := momence.MergeSessionDetail(summary, detail)

	if !merged.Detailed {
		t.Error("Expected merged session to be marked detailed")
	}
	if merged.Name != "Evening Burn 45" {
		t.Errorf("Expected detail name to win, got '%s'", merged.Name)
	}
	// Summary fields absent from the detail survive the merge.
	if merged.StartsAt != "2026-03-10T18:00:00Z" {
		t.Errorf("Expected summary startsAt kept, got '%s'", merged.StartsAt)
	}
	if merged.TeacherName != "Anita" {
		t.Errorf("Expected summary teacher kept, got '%s'", merged.TeacherName)
	}
	if merged.BookingCount != 9 || merged.AvailableSpots != 3 || merged.UtilizationRate != 75 {
		t.Errorf("Expected derived fields recomputed from detail counts, got count=%d spots=%d rate=%d",
			merged.BookingCount, merged.AvailableSpots, merged.UtilizationRate)
	}
	if merged.Description != "High intensity cycle class" || merged.Level != "Intermediate" {
		t.Error("Expected detail-only fields populated")
	}
	if len(merged.BookedNames) != 2 {
		t.Errorf("Expected 2 booked names (nil dropped), got %d", len(merged.BookedNames))
	}
}

func TestMergeSessionDetail_NilDetail(t *testing.T) {
	summary := momence.NormalizeSession(momence.RawSession{ID: "s-3"})
	merged := momence.MergeSessionDetail(summary, nil)

	if merged.Detailed {
		t.Error("Expected session without detail to stay a summary")
	}
}
