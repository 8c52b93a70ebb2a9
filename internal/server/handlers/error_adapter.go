package handlers

import (
	"net/http"

	apperrors "github.com/staffsearch/staffsearch/internal/errors"
)

// ErrorResponder writes an error response for a failed request.
type ErrorResponder func(http.ResponseWriter, *http.Request, error)

var httpErrorResponder ErrorResponder = apperrors.RespondWithError

// SetHTTPErrorResponder installs the server's central error handler. Nil restores
// the package default.
func SetHTTPErrorResponder(responder ErrorResponder) {
	if responder == nil {
		responder = apperrors.RespondWithError
	}
	httpErrorResponder = responder
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}
