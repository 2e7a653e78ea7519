// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns booking events into a plain text log.
package queue

import (
	"time"

	"github.com/iliyamo/cinema-ticket-ledger/internal/model"
)

// Queue names.  Both are durable and bound to the default exchange.
const (
	BookingConfirmedQueue   = "booking.confirmed"
	ShowtimeRegisteredQueue = "showtime.registered"
)

// BookingConfirmedEvent is published when the ledger accepts a
// reservation.  It carries the full receipt so consumers never need to
// query the ledger.
type BookingConfirmedEvent struct {
	BookingID     string `json:"booking_id"`
	Movie         string `json:"movie"`
	Time          string `json:"time"`
	TicketCount   int    `json:"ticket_count"`
	TotalPrice    int    `json:"total_price"`
	ReservedSeats int    `json:"reserved_seats"`
	Capacity      int    `json:"capacity"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ShowtimeRegisteredEvent is published after staff add or reset a showtime.
type ShowtimeRegisteredEvent struct {
	Movie        string `json:"movie"`
	Time         string `json:"time"`
	RegisteredAt string `json:"registered_at"`
}

// NewBookingConfirmedEvent builds the event for a receipt.
func NewBookingConfirmedEvent(r model.Receipt) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:     r.BookingID,
		Movie:         r.Movie,
		Time:          r.Time,
		TicketCount:   r.TicketCount,
		TotalPrice:    r.TotalPrice,
		ReservedSeats: r.ReservedSeats,
		Capacity:      r.Capacity,
		ConfirmedAt:   r.BookedAt.UTC().Format(time.RFC3339),
	}
}
