package model

// RegisterShowtimeRequest is the body of POST /v1/showtimes.
type RegisterShowtimeRequest struct {
	Movie string `json:"movie" validate:"required,notblank"`
	Time  string `json:"time" validate:"required,notblank"`
}

// ReserveTicketsRequest is the body of POST /v1/reservations.  Count is
// only checked for presence here; the ledger rejects non-positive values.
type ReserveTicketsRequest struct {
	Movie string `json:"movie" validate:"required,notblank"`
	Time  string `json:"time" validate:"required,notblank"`
	Count *int   `json:"count" validate:"required"`
}
