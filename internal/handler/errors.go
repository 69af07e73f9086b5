package handler

import (
	"errors"
	"net/http"

	"topcoach/internal/httputil"
	"topcoach/internal/logic/chat"
)

// RespondError maps logic-layer failures onto the error taxonomy:
// unauthenticated 401, invalid input 400, everything else 500 with details.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrUnauthenticated):
		httputil.Unauthorized(w, "Unauthorized")
	case errors.Is(err, chat.ErrEmptyMessage):
		httputil.BadRequest(w, "Message is required")
	default:
		httputil.InternalError(w, err.Error())
	}
}
