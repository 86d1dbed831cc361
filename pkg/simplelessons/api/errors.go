package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// renderError maps domain errors onto HTTP status codes.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, simplelessons.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, simplelessons.ErrLessonNotFound), errors.Is(err, simplelessons.ErrModuleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, simplelessons.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, simplelessons.ErrPersistence):
		status = http.StatusBadGateway
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
