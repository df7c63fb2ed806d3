package models

// Session is the canonical normalized shape of a bookable class or
// appointment instance. AvailableSpots and UtilizationRate are derived from
// capacity and booking count during normalization.
type Session struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StartsAt        string `json:"startsAt"`
	EndsAt          string `json:"endsAt"`
	DurationMinutes int    `json:"durationMinutes"`

	Capacity        int `json:"capacity"`
	BookingCount    int `json:"bookingCount"`
	AvailableSpots  int `json:"availableSpots"`
	UtilizationRate int `json:"utilizationRate"`

	TeacherID    string `json:"teacherId"`
	TeacherName  string `json:"teacherName"`
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`

	IsCancelled bool `json:"isCancelled"`
	IsDraft     bool `json:"isDraft"`

	// Detail fields are populated when the per-session detail fetch
	// succeeds during aggregation; Detailed stays false when the session
	// carries only its summary record.
	Detailed    bool     `json:"detailed"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	BookedNames []string `json:"bookedNames"`
}
