package reservation

// Booking is one scraped ticket booking for a show time.
type Booking struct {
	Time         string `json:"time" validate:"required"`
	HasVisitor   bool   `json:"has_visitor"`
	BookerName   string `json:"booker_name"`
	BookerPhone  string `json:"booker_phone"`
	VisitorName  string `json:"visitor_name"`
	VisitorPhone string `json:"visitor_phone"`
}

// RecordBookingsRequest records the bookings of one performance day.
type RecordBookingsRequest struct {
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Bookings []Booking `json:"bookings" validate:"required,dive"`
}

// ReservationItem is a booking carrying its own date, used by the full
// sync payload.
type ReservationItem struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required"`
	HasVisitor   bool   `json:"has_visitor"`
	BookerName   string `json:"booker_name"`
	BookerPhone  string `json:"booker_phone"`
	VisitorName  string `json:"visitor_name"`
	VisitorPhone string `json:"visitor_phone"`
}

// BookingDetail carries the contact info of one booking, for crawlers
// that send presence and details as separate structures.
type BookingDetail struct {
	HasVisitor   bool   `json:"has_visitor"`
	BookerName   string `json:"booker_name"`
	BookerPhone  string `json:"booker_phone"`
	VisitorName  string `json:"visitor_name"`
	VisitorPhone string `json:"visitor_phone"`
}

// SyncReservationsRequest reconciles whole months against the scraped
// booking set. BookingDetails is keyed "{date}_{time}" with the same
// date and time strings the reservation items use.
type SyncReservationsRequest struct {
	Months         []string                 `json:"months" validate:"required,min=1"`
	Reservations   []ReservationItem        `json:"reservations" validate:"dive"`
	BookingDetails map[string]BookingDetail `json:"booking_details"`
}

// detailFor fills an item's contact fields from the side channel when it
// carries none of its own.
func (r *SyncReservationsRequest) detailFor(item ReservationItem) ReservationItem {
	if item.BookerName != "" || item.BookerPhone != "" ||
		item.VisitorName != "" || item.VisitorPhone != "" {
		return item
	}
	d, ok := r.BookingDetails[item.Date+"_"+item.Time]
	if !ok {
		return item
	}
	item.HasVisitor = d.HasVisitor
	item.BookerName = d.BookerName
	item.BookerPhone = d.BookerPhone
	item.VisitorName = d.VisitorName
	item.VisitorPhone = d.VisitorPhone
	return item
}

// BookingResultItem reports the outcome of one booking.
type BookingResultItem struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"` // recorded | error
	Error  string `json:"error,omitempty"`
}

// SyncResult summarizes a reconciliation pass.
type SyncResult struct {
	Results []BookingResultItem `json:"results"`
	Cleared int                 `json:"cleared"`
}

// resolveContact prefers the visitor identity over the booker's when the
// booking reports one.
func resolveContact(hasVisitor bool, bookerName, bookerPhone, visitorName, visitorPhone string) (name, contact string) {
	if hasVisitor && (visitorName != "" || visitorPhone != "") {
		return visitorName, visitorPhone
	}
	return bookerName, bookerPhone
}
