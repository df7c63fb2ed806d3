package momence

// Pagination is the platform's envelope pagination block.
type Pagination struct {
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// RawMember is the platform's wire shape for a member record. Optional
// fields are pointers so absence survives decoding; normalization fills
// the canonical defaults.
type RawMember struct {
	ID         string  `json:"id"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phoneNumber"`
	PictureURL *string `json:"pictureUrl"`

	Stats *RawVisitStats `json:"stats"`

	CustomFields []RawCustomField `json:"customFields"`
	Tags         []RawTag         `json:"tags"`

	// Memberships and Sessions are present only on the detail endpoint.
	Memberships []RawMembership `json:"memberships"`
	Sessions    []RawSession    `json:"sessions"`
}

// RawVisitStats is the platform's visit-statistics aggregate.
type RawVisitStats struct {
	Appointments   *int `json:"appointments"`
	Bookings       *int `json:"bookings"`
	OpenAreaVisits *int `json:"openAreaVisits"`
	TotalVisits    *int `json:"totalVisits"`
}

// RawCustomField is a platform custom-field entry.
type RawCustomField struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

// RawTag is a platform member tag.
type RawTag struct {
	Name *string `json:"name"`
}

// RawMembership is the platform's wire shape for a purchased plan.
type RawMembership struct {
	ID               string   `json:"id"`
	Name             *string  `json:"name"`
	StartDate        *string  `json:"startDate"`
	EndDate          *string  `json:"endDate"`
	IsFrozen         *bool    `json:"isFrozen"`
	SessionsUsed     *int     `json:"sessionsUsed"`
	SessionLimit     *int     `json:"sessionLimit"`
	AppointmentsUsed *int     `json:"appointmentsUsed"`
	AppointmentLimit *int     `json:"appointmentLimit"`
	CreditsRemaining *float64 `json:"creditsRemaining"`
}

// RawSession is the platform's wire shape for a session summary row.
type RawSession struct {
	ID              string  `json:"id"`
	Name            *string `json:"name"`
	StartsAt        *string `json:"startsAt"`
	EndsAt          *string `json:"endsAt"`
	DurationMinutes *int    `json:"durationMinutes"`
	Capacity        *int    `json:"capacity"`
	BookingCount    *int    `json:"bookingCount"`
	TeacherID       *string `json:"teacherId"`
	TeacherName     *string `json:"teacherName"`
	LocationID      *string `json:"locationId"`
	LocationName    *string `json:"locationName"`
	IsCancelled     *bool   `json:"isCancelled"`
	IsDraft         *bool   `json:"isDraft"`
}

// RawSessionDetail is the platform's wire shape for the session detail
// endpoint. Summary fields repeat here and win over the listing row when
// the two are merged.
type RawSessionDetail struct {
	RawSession

	Description *string   `json:"description"`
	Level       *string   `json:"level"`
	BookedNames []*string `json:"bookedNames"`
}

// MemberPage is the paginated envelope returned by the member search
// endpoint.
type MemberPage struct {
	Payload    []RawMember `json:"payload"`
	Pagination Pagination  `json:"pagination"`
}

// SessionPage is the paginated envelope returned by the session listing
// endpoint.
type SessionPage struct {
	Payload    []RawSession `json:"payload"`
	Pagination Pagination   `json:"pagination"`
}
