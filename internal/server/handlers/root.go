package handlers

import "net/http"

// RootResponse is the liveness banner served at /.
type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// RootHandler reports that the API is running and where its docs live.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Employee Search API is running",
		Status:  checkHealthy,
		Version: AppVersion,
		Docs:    "/docs",
	})
}
