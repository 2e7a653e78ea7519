// Package booth is the terminal front end of the ticket counter.  It walks
// the customer or staff member through the same screens as the old desktop
// program (welcome, mode selection, booking form, showtime form, bill) and
// keeps no state of its own beyond form contents: every decision is made by
// the ledger.
package booth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
	"github.com/iliyamo/cinema-ticket-ledger/internal/model"
)

const (
	theaterName  = "LA Cinemas"
	currencySign = "₹"

	minFrameWidth = 40
)

type screen int

const (
	screenWelcome screen = iota
	screenMenu
	screenCustomer
	screenStaff
	screenBill
	screenGoodbye
)

var menuChoices = []string{"Customer Mode", "Theater Staff Mode"}

// customer form fields, in tab order
const (
	fieldMovie = iota
	fieldTime
	fieldTickets
	customerFields
)

// staff form fields, in tab order
const (
	fieldStaffMovie = iota
	fieldStaffTime
	staffFields
)

// Model is the bubbletea model of the booth.
type Model struct {
	ledger *ledger.Ledger
	screen screen

	menuCursor int

	movies    []string
	times     []string
	movieIdx  int
	timeIdx   int
	tickets   textinput.Model
	custFocus int

	staffMovie textinput.Model
	staffTime  textinput.Model
	staffFocus int

	receipt model.Receipt
	status  string
	err     string
	width   int
}

// New returns a booth showing the welcome screen.
func New(l *ledger.Ledger) Model {
	tickets := textinput.New()
	tickets.Placeholder = "1"
	tickets.CharLimit = 4
	tickets.Width = 6

	staffMovie := textinput.New()
	staffMovie.Placeholder = "Movie name"
	staffMovie.CharLimit = 80
	staffMovie.Width = 40

	staffTime := textinput.New()
	staffTime.Placeholder = "7:00 PM"
	staffTime.CharLimit = 20
	staffTime.Width = 12

	return Model{
		ledger:     l,
		screen:     screenWelcome,
		tickets:    tickets,
		staffMovie: staffMovie,
		staffTime:  staffTime,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.screen = screenGoodbye
			return m, tea.Quit
		}
		switch m.screen {
		case screenWelcome:
			return m.updateWelcome(msg)
		case screenMenu:
			return m.updateMenu(msg)
		case screenCustomer:
			return m.updateCustomer(msg)
		case screenStaff:
			return m.updateStaff(msg)
		case screenBill:
			return m.updateBill(msg)
		}
	}
	return m, nil
}

func (m Model) updateWelcome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		m.screen = screenMenu
	case "q", "esc":
		m.screen = screenGoodbye
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(menuChoices)-1 {
			m.menuCursor++
		}
	case "enter":
		m.status, m.err = "", ""
		if m.menuCursor == 0 {
			return m.openCustomer()
		}
		return m.openStaff()
	case "q", "esc":
		m.screen = screenGoodbye
		return m, tea.Quit
	}
	return m, nil
}

// openCustomer reloads the pickers from the ledger so showtimes added in
// staff mode show up immediately.
func (m Model) openCustomer() (tea.Model, tea.Cmd) {
	m.screen = screenCustomer
	m.movies = m.ledger.ListMovies()
	if m.movieIdx >= len(m.movies) {
		m.movieIdx = 0
	}
	m.refreshTimes()
	m.tickets.SetValue("")
	return m, m.focusCustomer(fieldMovie)
}

func (m *Model) refreshTimes() {
	m.times = nil
	if len(m.movies) > 0 {
		if times, err := m.ledger.ListShowtimes(m.movies[m.movieIdx]); err == nil {
			m.times = times
		}
	}
	if m.timeIdx >= len(m.times) {
		m.timeIdx = 0
	}
}

func (m *Model) focusCustomer(field int) tea.Cmd {
	m.custFocus = field
	if field == fieldTickets {
		return m.tickets.Focus()
	}
	m.tickets.Blur()
	return nil
}

func (m Model) updateCustomer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMenu
		m.err = ""
		return m, nil
	case "tab", "down":
		return m, m.focusCustomer((m.custFocus + 1) % customerFields)
	case "shift+tab", "up":
		return m, m.focusCustomer((m.custFocus + customerFields - 1) % customerFields)
	case "enter":
		return m.book()
	case "left", "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch m.custFocus {
		case fieldMovie:
			if n := len(m.movies); n > 0 {
				m.movieIdx = (m.movieIdx + step + n) % n
				m.timeIdx = 0
				m.refreshTimes()
			}
			return m, nil
		case fieldTime:
			if n := len(m.times); n > 0 {
				m.timeIdx = (m.timeIdx + step + n) % n
			}
			return m, nil
		}
	}

	if m.custFocus == fieldTickets {
		var cmd tea.Cmd
		m.tickets, cmd = m.tickets.Update(msg)
		return m, cmd
	}
	return m, nil
}

// book mirrors the validation order of the counter: every field filled
// first, then a usable number, then the ledger's own checks.
func (m Model) book() (tea.Model, tea.Cmd) {
	m.err = ""
	if len(m.movies) == 0 || len(m.times) == 0 || strings.TrimSpace(m.tickets.Value()) == "" {
		m.err = "Please select a movie, time, and enter the number of tickets."
		return m, nil
	}
	count, err := ledger.ParseTicketCount(m.tickets.Value())
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &numErr):
		m.err = "Please enter a valid number for tickets."
		return m, nil
	case err != nil:
		m.err = "Please enter a valid number of tickets."
		return m, nil
	}

	receipt, err := m.ledger.ReserveTickets(m.movies[m.movieIdx], m.times[m.timeIdx], count)
	var capErr *ledger.CapacityError
	switch {
	case errors.As(err, &capErr):
		m.err = fmt.Sprintf("Not enough seats available! Only %d seats left.", capErr.Remaining)
		return m, nil
	case err != nil:
		m.err = err.Error()
		return m, nil
	}

	m.receipt = receipt
	m.screen = screenBill
	m.tickets.Blur()
	return m, nil
}

func (m Model) updateBill(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		return m.openCustomer()
	case "q":
		m.screen = screenMenu
	}
	return m, nil
}

func (m Model) openStaff() (tea.Model, tea.Cmd) {
	m.screen = screenStaff
	m.staffMovie.SetValue("")
	m.staffTime.SetValue("")
	return m, m.focusStaff(fieldStaffMovie)
}

func (m *Model) focusStaff(field int) tea.Cmd {
	m.staffFocus = field
	if field == fieldStaffMovie {
		m.staffTime.Blur()
		return m.staffMovie.Focus()
	}
	m.staffMovie.Blur()
	return m.staffTime.Focus()
}

func (m Model) updateStaff(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMenu
		m.status, m.err = "", ""
		return m, nil
	case "tab", "down", "shift+tab", "up":
		return m, m.focusStaff((m.staffFocus + 1) % staffFields)
	case "enter":
		return m.addShowtime()
	}

	var cmd tea.Cmd
	if m.staffFocus == fieldStaffMovie {
		m.staffMovie, cmd = m.staffMovie.Update(msg)
	} else {
		m.staffTime, cmd = m.staffTime.Update(msg)
	}
	return m, cmd
}

func (m Model) addShowtime() (tea.Model, tea.Cmd) {
	m.status, m.err = "", ""
	movie := strings.TrimSpace(m.staffMovie.Value())
	showTime := strings.TrimSpace(m.staffTime.Value())
	if err := m.ledger.RegisterShowtime(movie, showTime); err != nil {
		m.err = "Please enter both movie name and time."
		return m, nil
	}
	m.status = fmt.Sprintf("Showtime added for %s at %s!", movie, showTime)
	m.staffMovie.SetValue("")
	m.staffTime.SetValue("")
	return m, m.focusStaff(fieldStaffMovie)
}

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenWelcome:
		body = lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Welcome to "+theaterName+"!"),
			"",
			helpStyle.Render("enter: proceed to booking system • q: quit"),
		)
	case screenMenu:
		body = m.viewMenu()
	case screenCustomer:
		body = m.viewCustomer()
	case screenStaff:
		body = m.viewStaff()
	case screenBill:
		body = m.viewBill()
	case screenGoodbye:
		return "Thank you for using " + theaterName + "!\n"
	}
	return m.frame().Render(body) + "\n"
}

// frame stretches the border to the terminal once its width is known.
func (m Model) frame() lipgloss.Style {
	inner := m.width - frameStyle.GetHorizontalBorderSize()
	if inner < minFrameWidth {
		return frameStyle
	}
	return frameStyle.Width(inner)
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Movie Ticket Booking System"))
	b.WriteString("\n\n")
	for i, choice := range menuChoices {
		if i == m.menuCursor {
			b.WriteString(cursorStyle.Render("> " + choice))
		} else {
			b.WriteString("  " + choice)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓: choose • enter: open • q: quit"))
	return b.String()
}

func label(text string, focused bool) string {
	if focused {
		return focusedLabel.Render("> " + text)
	}
	return blurredLabel.Render("  " + text)
}

func picker(values []string, idx int) string {
	if len(values) == 0 {
		return "(none)"
	}
	return "◀ " + values[idx] + " ▶"
}

func (m Model) viewCustomer() string {
	lines := []string{
		titleStyle.Render("Customer Mode"),
		"",
		label("Select Movie:", m.custFocus == fieldMovie),
		"    " + picker(m.movies, m.movieIdx),
		label("Select Showtime:", m.custFocus == fieldTime),
		"    " + picker(m.times, m.timeIdx),
		label("Number of Tickets:", m.custFocus == fieldTickets),
		"    " + m.tickets.View(),
		"",
	}
	if m.err != "" {
		lines = append(lines, errorStyle.Render(m.err), "")
	}
	lines = append(lines, helpStyle.Render("tab: next field • ←/→: change • enter: book ticket • esc: back"))
	return strings.Join(lines, "\n")
}

func (m Model) viewStaff() string {
	lines := []string{
		titleStyle.Render("Theater Staff Mode"),
		"",
		label("Movie Name:", m.staffFocus == fieldStaffMovie),
		"    " + m.staffMovie.View(),
		label("Showtime (e.g., 7:00 PM):", m.staffFocus == fieldStaffTime),
		"    " + m.staffTime.View(),
		"",
	}
	if m.err != "" {
		lines = append(lines, errorStyle.Render(m.err), "")
	}
	if m.status != "" {
		lines = append(lines, successStyle.Render(m.status), "")
	}
	lines = append(lines, helpStyle.Render("tab: next field • enter: add showtime • esc: back"))
	return strings.Join(lines, "\n")
}

// FormatPrice renders an amount the way it is printed on the bill.
func FormatPrice(amount int) string {
	return currencySign + humanize.Comma(int64(amount))
}

func (m Model) viewBill() string {
	r := m.receipt
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return billHeadStyle
			}
			return billCellStyle
		}).
		Headers("Movie", "Showtime", "Tickets", "Total Amount", "Reserved Seats").
		Row(r.Movie, r.Time, fmt.Sprint(r.TicketCount), FormatPrice(r.TotalPrice),
			fmt.Sprintf("%d/%d", r.ReservedSeats, r.Capacity))

	return strings.Join([]string{
		titleStyle.Render("Bill"),
		"",
		t.Render(),
		"",
		helpStyle.Render("enter: book more • q: main menu"),
	}, "\n")
}
