package model

import "time"

// Receipt is returned for every successful reservation.  It is the
// "bill" shown to the customer and the payload of the booking.confirmed
// event.
//
// Fields:
//  BookingID     – random identifier of this booking.
//  Movie, Time   – the showtime that was booked.
//  TicketCount   – number of tickets bought in this booking.
//  TotalPrice    – TicketCount multiplied by the flat ticket price.
//  ReservedSeats – occupancy of the showtime after this booking.
//  Capacity      – maximum seats of the showtime.
//  BookedAt      – when the ledger accepted the booking (UTC).
type Receipt struct {
	BookingID     string    `json:"booking_id"`
	Movie         string    `json:"movie"`
	Time          string    `json:"time"`
	TicketCount   int       `json:"ticket_count"`
	TotalPrice    int       `json:"total_price"`
	ReservedSeats int       `json:"reserved_seats"`
	Capacity      int       `json:"capacity"`
	BookedAt      time.Time `json:"booked_at"`
}

// Showtime is a read-only view of one ledger entry.
type Showtime struct {
	Movie          string `json:"movie"`
	Time           string `json:"time"`
	ReservedSeats  int    `json:"reserved_seats"`
	RemainingSeats int    `json:"remaining_seats"`
	Capacity       int    `json:"capacity"`
}
