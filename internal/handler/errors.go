package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
)

// Error kinds reported in the "error" field of every failure body.
const (
	kindInvalidInput    = "invalid_input"
	kindUnknownMovie    = "unknown_movie"
	kindUnknownShowtime = "unknown_showtime"
	kindCapacity        = "capacity_exceeded"
	kindInternal        = "internal_error"
)

// ledgerError translates a ledger error into its HTTP status and JSON body.
// Capacity failures also report the remaining seats.
func ledgerError(c echo.Context, err error) error {
	var capErr *ledger.CapacityError
	switch {
	case errors.As(err, &capErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     kindCapacity,
			"message":   capErr.Error(),
			"remaining": capErr.Remaining,
		})
	case errors.Is(err, ledger.ErrInvalidInput):
		return invalidInput(c, err.Error())
	case errors.Is(err, ledger.ErrUnknownShowtime):
		return c.JSON(http.StatusNotFound, echo.Map{"error": kindUnknownShowtime, "message": err.Error()})
	case errors.Is(err, ledger.ErrUnknownMovie):
		return c.JSON(http.StatusNotFound, echo.Map{"error": kindUnknownMovie, "message": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected ledger error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": kindInternal, "message": "internal error"})
	}
}

func invalidInput(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": kindInvalidInput, "message": msg})
}
