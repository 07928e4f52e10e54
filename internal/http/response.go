package http

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/domain/booking"
	"squash-courts/backend/internal/domain/catalog"
	"squash-courts/backend/internal/httpjson"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	httpjson.Write(w, status, v)
}

func Fail(w http.ResponseWriter, status int, msg string) {
	httpjson.Error(w, status, msg)
}

// failBooking writes a booking error. Conflicts carry the alternatives that
// were computed when the conflict was found.
func failBooking(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapBookingError(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Msg("booking request failed")
	}
	body := httpjson.APIError{Message: msg}
	if status == http.StatusConflict {
		body.Suggestions = booking.Suggestions(err)
		if body.Suggestions == nil {
			body.Suggestions = []string{}
		}
	}
	WriteJSON(w, status, body)
}

func mapBookingError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case booking.IsErrConflict(err):
		return 409, err.Error()
	case booking.IsErrBadRequest(err), httpjson.IsBadInput(err):
		return 400, err.Error()
	case booking.IsErrForbidden(err):
		return 403, err.Error()
	case booking.IsErrNotFound(err):
		return 404, err.Error()
	case booking.IsErrStoreUnavailable(err):
		return 503, "booking service is temporarily unavailable, please try again"
	default:
		return 500, "internal error"
	}
}

func failCatalog(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapCatalogError(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Msg("catalog request failed")
	}
	Fail(w, status, msg)
}

func mapCatalogError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case catalog.IsErrBadRequest(err), httpjson.IsBadInput(err):
		return 400, err.Error()
	case catalog.IsErrNotFound(err):
		return 404, err.Error()
	case catalog.IsErrStoreUnavailable(err):
		return 503, "catalog is temporarily unavailable, please try again"
	default:
		return 500, "internal error"
	}
}
