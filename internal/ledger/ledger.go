// Package ledger holds the authoritative reserved-seat counts per movie and
// showtime.  It is the only stateful part of the booking system; HTTP and
// terminal front ends call into it and render its results.
package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticket-ledger/internal/model"
)

const (
	TicketPrice = 150 // flat price per ticket in rupees
	MaxSeats    = 100 // seats available per showtime
)

// DefaultShowtimes are the screenings every seeded ledger starts with.
var DefaultShowtimes = map[string][]string{
	"Avengers: Endgame": {"12:00 PM", "3:00 PM", "6:00 PM"},
	"The Lion King":     {"12:00 PM", "3:00 PM", "6:00 PM"},
	"Frozen II":         {"12:00 PM", "3:00 PM", "6:00 PM"},
}

// Ledger maps movie title -> time label -> reserved seats.  A single
// RWMutex guards the table so the capacity check and the increment in
// ReserveTickets happen atomically.
type Ledger struct {
	mu       sync.RWMutex
	shows    map[string]map[string]int
	capacity int
	price    int
	now      func() time.Time
	newID    func() string
}

// Option customises a Ledger at construction time.
type Option func(*Ledger)

// WithCapacity overrides MaxSeats.  Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithTicketPrice overrides TicketPrice.  Negative values are ignored.
func WithTicketPrice(p int) Option {
	return func(l *Ledger) {
		if p >= 0 {
			l.price = p
		}
	}
}

// WithClock replaces the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New returns an empty ledger.  Use Seed to load DefaultShowtimes.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		shows:    make(map[string]map[string]int),
		capacity: MaxSeats,
		price:    TicketPrice,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewSeeded returns a ledger loaded with DefaultShowtimes.
func NewSeeded(opts ...Option) *Ledger {
	l := New(opts...)
	l.Seed(DefaultShowtimes)
	return l
}

// Capacity reports the per-showtime seat limit.
func (l *Ledger) Capacity() int { return l.capacity }

// TicketPrice reports the flat price charged per ticket.
func (l *Ledger) TicketPrice() int { return l.price }

// Seed registers every (movie, time) pair of shows at zero reserved seats.
// Blank entries are skipped.
func (l *Ledger) Seed(shows map[string][]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for movie, times := range shows {
		for _, t := range times {
			m, tm := strings.TrimSpace(movie), strings.TrimSpace(t)
			if m == "" || tm == "" {
				continue
			}
			l.registerLocked(m, tm)
		}
	}
}

// RegisterShowtime adds a showtime for movie, creating the movie when it is
// not known yet.  Registering an existing showtime resets its reserved
// count to zero.
func (l *Ledger) RegisterShowtime(movie, showTime string) error {
	movie, showTime = strings.TrimSpace(movie), strings.TrimSpace(showTime)
	if movie == "" || showTime == "" {
		return fmt.Errorf("movie and time are required: %w", ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registerLocked(movie, showTime)
	return nil
}

func (l *Ledger) registerLocked(movie, showTime string) {
	times, ok := l.shows[movie]
	if !ok {
		times = make(map[string]int)
		l.shows[movie] = times
	}
	times[showTime] = 0
}

// ReserveTickets books count seats for the given showtime.  On any error
// the ledger is left untouched.
func (l *Ledger) ReserveTickets(movie, showTime string, count int) (model.Receipt, error) {
	if count <= 0 {
		return model.Receipt{}, fmt.Errorf("ticket count must be positive, got %d: %w", count, ErrInvalidInput)
	}
	movie, showTime = strings.TrimSpace(movie), strings.TrimSpace(showTime)

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.shows[movie][showTime]
	if !ok {
		return model.Receipt{}, fmt.Errorf("%s at %s: %w", movie, showTime, ErrUnknownShowtime)
	}
	// compared this way round so huge counts cannot overflow
	if count > l.capacity-current {
		return model.Receipt{}, &CapacityError{
			Movie:     movie,
			Time:      showTime,
			Requested: count,
			Remaining: l.capacity - current,
		}
	}
	l.shows[movie][showTime] = current + count

	return model.Receipt{
		BookingID:     l.newID(),
		Movie:         movie,
		Time:          showTime,
		TicketCount:   count,
		TotalPrice:    count * l.price,
		ReservedSeats: current + count,
		Capacity:      l.capacity,
		BookedAt:      l.now().UTC(),
	}, nil
}

// ListMovies returns every known title in alphabetical order.
func (l *Ledger) ListMovies() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.shows))
	for movie := range l.shows {
		out = append(out, movie)
	}
	sort.Strings(out)
	return out
}

// ListShowtimes returns the time labels of movie ordered by time of day.
func (l *Ledger) ListShowtimes(movie string) ([]string, error) {
	movie = strings.TrimSpace(movie)
	l.mu.RLock()
	defer l.mu.RUnlock()
	times, ok := l.shows[movie]
	if !ok {
		return nil, fmt.Errorf("%s: %w", movie, ErrUnknownMovie)
	}
	out := make([]string, 0, len(times))
	for t := range times {
		out = append(out, t)
	}
	sortTimeLabels(out)
	return out, nil
}

// Showtime returns the occupancy of one showtime.
func (l *Ledger) Showtime(movie, showTime string) (model.Showtime, error) {
	movie, showTime = strings.TrimSpace(movie), strings.TrimSpace(showTime)
	l.mu.RLock()
	defer l.mu.RUnlock()
	times, ok := l.shows[movie]
	if !ok {
		return model.Showtime{}, fmt.Errorf("%s: %w", movie, ErrUnknownMovie)
	}
	reserved, ok := times[showTime]
	if !ok {
		return model.Showtime{}, fmt.Errorf("%s at %s: %w", movie, showTime, ErrUnknownShowtime)
	}
	return model.Showtime{
		Movie:          movie,
		Time:           showTime,
		ReservedSeats:  reserved,
		RemainingSeats: l.capacity - reserved,
		Capacity:       l.capacity,
	}, nil
}

// ParseTicketCount converts free-form user input into a ticket count.
func ParseTicketCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("ticket count is required: %w", ErrInvalidInput)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("ticket count %q is not a number: %w (%w)", s, ErrInvalidInput, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("ticket count must be positive, got %d: %w", n, ErrInvalidInput)
	}
	return n, nil
}

// clockLayouts are the accepted spellings of a time label such as "3:00 PM".
var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04", "3 PM", "3PM"}

func parseClock(label string) (time.Time, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortTimeLabels puts parseable clock labels first in time-of-day order and
// anything else after them alphabetically.
func sortTimeLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ti, okI := parseClock(labels[i])
		tj, okJ := parseClock(labels[j])
		switch {
		case okI && okJ:
			if ti.Equal(tj) {
				return labels[i] < labels[j]
			}
			return ti.Before(tj)
		case okI != okJ:
			return okI
		default:
			return labels[i] < labels[j]
		}
	})
}
