package calendar

import "strings"

// DescriptionInput carries the pieces of a male-lead event description.
// The female-lead event never gets a description.
type DescriptionInput struct {
	PartnerName        string
	ReservationName    string
	ReservationContact string
}

// BuildCastingDescription renders the description text for a casting event.
// Returns "" when there is nothing to say.
func BuildCastingDescription(in DescriptionInput) string {
	var lines []string
	if in.PartnerName != "" {
		lines = append(lines, "상대역: "+in.PartnerName)
	}
	if in.ReservationName != "" {
		lines = append(lines, "예약자: "+in.ReservationName)
	}
	if in.ReservationContact != "" {
		lines = append(lines, "연락처: "+in.ReservationContact)
	}
	return strings.Join(lines, "\n")
}
