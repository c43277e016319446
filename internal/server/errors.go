package server

import (
	"net/http"

	apperrors "github.com/harulabs/mintgate/internal/errors"
)

// HandleError central handler for all errors
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	HandleError(w, r, apperrors.NewNotFoundError("The requested resource was not found"))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	HandleError(w, r, apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource"))
}
