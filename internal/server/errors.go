package server

import (
	"net/http"

	apperrors "github.com/staffsearch/staffsearch/internal/errors"
)

// HandleError is the single error sink for routes, 404/405 and handlers.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}
