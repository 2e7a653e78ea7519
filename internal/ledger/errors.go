package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the ledger.  Callers compare with errors.Is
// and translate them into user facing messages or HTTP statuses.
var (
	// ErrInvalidInput covers empty titles or labels and non-positive or
	// unparseable ticket counts.
	ErrInvalidInput = errors.New("invalid input")

	ErrUnknownMovie    = errors.New("unknown movie")
	ErrUnknownShowtime = errors.New("unknown showtime")

	// ErrCapacityExceeded is matched by every *CapacityError.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// CapacityError reports a reservation that would overbook a showtime.
// Remaining is the number of seats still free when the attempt was made.
type CapacityError struct {
	Movie     string
	Time      string
	Requested int
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough seats for %s at %s: requested %d, only %d left",
		e.Movie, e.Time, e.Requested, e.Remaining)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }
